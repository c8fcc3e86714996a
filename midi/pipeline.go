package midi

import (
	"fmt"
	"sync/atomic"
	"time"

	"midiscope/eventlog"
)

// DefaultQueueCapacity is the ingestion channel size. Large enough that a
// burst between two ticks fits; anything beyond is dropped and counted.
const DefaultQueueCapacity = 4096

// Pipeline carries inbound messages from driver goroutines to the control
// loop. Any number of inputs produce into it; exactly one goroutine drains it.
type Pipeline struct {
	ch       chan eventlog.Entry
	dropped  atomic.Uint64
	reported uint64 // consumer side only
	now      func() time.Time
}

func NewPipeline(capacity int) *Pipeline {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Pipeline{
		ch:  make(chan eventlog.Entry, capacity),
		now: time.Now,
	}
}

// Sink returns the callback registered for one open input. It only formats
// and does a non-blocking send, so it is safe to run on a driver thread.
func (p *Pipeline) Sink(name string) InputFunc {
	return func(data []byte, ts time.Duration) {
		entry := eventlog.Entry{
			At:   p.now(),
			Kind: eventlog.Message,
			Text: FormatMessage(name, data, ts),
		}
		select {
		case p.ch <- entry:
		default:
			p.dropped.Add(1)
		}
	}
}

// Drain moves everything queued at call time into log and returns how many
// entries moved. It never blocks.
func (p *Pipeline) Drain(log *eventlog.Log) int {
	pending := len(p.ch)
	for i := 0; i < pending; i++ {
		log.Append(<-p.ch)
	}

	if d := p.dropped.Load(); d > p.reported {
		log.Statusf("Dropped %d message(s): ingestion queue full", d-p.reported)
		p.reported = d
	}
	return pending
}

// Pending is the number of entries waiting to be drained
func (p *Pipeline) Pending() int { return len(p.ch) }

// Dropped is the total number of messages lost to a full queue
func (p *Pipeline) Dropped() uint64 { return p.dropped.Load() }

// FormatMessage renders a raw message as "<device>: 90 40 7F (t=12ms)"
func FormatMessage(name string, data []byte, ts time.Duration) string {
	return fmt.Sprintf("%s: % X (t=%dms)", name, data, ts.Milliseconds())
}
