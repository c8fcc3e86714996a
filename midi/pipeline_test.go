package midi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midiscope/eventlog"
	"midiscope/midi"
)

func TestInboundMessageReachesLog(t *testing.T) {
	f := newFixture(t)
	f.drv.AddPort(midi.Input, "Beta")
	beta := f.discover(t)[0]
	require.NoError(t, f.mgr.Toggle(beta))

	require.Equal(t, 1, f.drv.Deliver("Beta", 0x90, 0x40, 0x7F))
	assert.Equal(t, 1, f.pipe.Pending())

	assert.Equal(t, 1, f.pipe.Drain(f.log))
	entry := lastEntry(t, f.log)
	assert.Equal(t, eventlog.Message, entry.Kind)
	assert.Contains(t, entry.Text, "Beta")
	assert.Contains(t, entry.Text, "90 40 7F")
}

func TestClosedInputStopsDelivery(t *testing.T) {
	f := newFixture(t)
	f.drv.AddPort(midi.Input, "Beta")
	beta := f.discover(t)[0]
	require.NoError(t, f.mgr.Toggle(beta))
	require.NoError(t, f.mgr.Toggle(beta))

	assert.Zero(t, f.drv.Deliver("Beta", 0x80, 0x40, 0x00))
	assert.Zero(t, f.pipe.Pending())
}

func TestPipelineDropsWhenFull(t *testing.T) {
	pipe := midi.NewPipeline(2)
	sink := pipe.Sink("Keys")
	for i := 0; i < 5; i++ {
		sink([]byte{0xB0, byte(i), 0x7F}, 0)
	}
	assert.Equal(t, uint64(3), pipe.Dropped())

	log := eventlog.New(8)
	assert.Equal(t, 2, pipe.Drain(log))

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Contains(t, entries[0].Text, "B0 00 7F")
	assert.Contains(t, entries[1].Text, "B0 01 7F")
	assert.Equal(t, "Dropped 3 message(s): ingestion queue full", entries[2].Text)

	// drops are reported once
	assert.Zero(t, pipe.Drain(log))
	assert.Equal(t, 3, log.Len())
}

func TestPipelineDrainOnEmptyDoesNotBlock(t *testing.T) {
	pipe := midi.NewPipeline(4)
	done := make(chan int)
	go func() { done <- pipe.Drain(eventlog.New(4)) }()

	select {
	case n := <-done:
		assert.Zero(t, n)
	case <-time.After(time.Second):
		t.Fatal("Drain blocked on an empty queue")
	}
}

func TestPipelineFeedsEvictingLog(t *testing.T) {
	pipe := midi.NewPipeline(64)
	sink := pipe.Sink("Pads")
	for i := 0; i < 10; i++ {
		sink([]byte{0x99, byte(i)}, time.Duration(i)*time.Millisecond)
	}

	log := eventlog.New(4)
	pipe.Drain(log)
	require.Equal(t, 4, log.Len())
	assert.Contains(t, log.Recent(1)[0].Text, "99 09")
	assert.Contains(t, log.Entries()[0].Text, "99 06")
}

func TestFormatMessage(t *testing.T) {
	got := midi.FormatMessage("Beta", []byte{0x90, 0x40, 0x7F}, 1500*time.Millisecond)
	assert.Equal(t, "Beta: 90 40 7F (t=1500ms)", got)
}
