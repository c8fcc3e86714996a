package eventlog

import (
	"fmt"
	"time"
)

// Kind separates operational status lines from inbound traffic
type Kind int

const (
	Status Kind = iota
	Error
	Message
)

func (k Kind) String() string {
	switch k {
	case Status:
		return "status"
	case Error:
		return "error"
	case Message:
		return "message"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is one formatted line of the log
type Entry struct {
	At   time.Time
	Kind Kind
	Text string
}

// String renders the entry with its timestamp. Error entries carry an
// "Error: " prefix so they stand out from normal status output.
func (e Entry) String() string {
	ts := e.At.Format("15:04:05.000")
	if e.Kind == Error {
		return ts + " Error: " + e.Text
	}
	return ts + " " + e.Text
}

// DefaultCapacity is the number of entries kept before the oldest is evicted
const DefaultCapacity = 1024

// Log is a fixed-capacity ring of entries. Once full, every Append evicts
// exactly the oldest entry. A Log is owned by the control loop and is not
// safe for concurrent use.
type Log struct {
	items []Entry
	head  int // next write position
	size  int
	now   func() time.Time
}

// New creates a log holding at most capacity entries
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		items: make([]Entry, capacity),
		now:   time.Now,
	}
}

// Append stores an entry, stamping it with the current time if unset
func (l *Log) Append(e Entry) {
	if e.At.IsZero() {
		e.At = l.now()
	}
	l.items[l.head] = e
	l.head = (l.head + 1) % len(l.items)
	if l.size < len(l.items) {
		l.size++
	}
}

// Statusf appends a status entry
func (l *Log) Statusf(format string, args ...any) {
	l.Append(Entry{Kind: Status, Text: fmt.Sprintf(format, args...)})
}

// Err appends an error entry for err
func (l *Log) Err(err error) {
	if err == nil {
		return
	}
	l.Append(Entry{Kind: Error, Text: err.Error()})
}

func (l *Log) Len() int { return l.size }
func (l *Log) Cap() int { return len(l.items) }

// Entries returns every stored entry, oldest first
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, l.size)
	start := (l.head - l.size + len(l.items)) % len(l.items)
	for i := 0; i < l.size; i++ {
		out = append(out, l.items[(start+i)%len(l.items)])
	}
	return out
}

// Recent returns up to n entries, newest first. n <= 0 means all.
func (l *Log) Recent(n int) []Entry {
	if n <= 0 || n > l.size {
		n = l.size
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, l.items[(l.head-i+len(l.items))%len(l.items)])
	}
	return out
}
