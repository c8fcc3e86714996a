package midi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midiscope/eventlog"
	"midiscope/midi"
	"midiscope/midi/miditest"
)

type fixture struct {
	drv  *miditest.Driver
	log  *eventlog.Log
	pipe *midi.Pipeline
	mgr  *midi.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	drv := miditest.New()
	log := eventlog.New(64)
	pipe := midi.NewPipeline(16)
	return &fixture{
		drv:  drv,
		log:  log,
		pipe: pipe,
		mgr:  midi.NewManager(drv, "midiscope", pipe, log),
	}
}

func (f *fixture) discover(t *testing.T) []midi.DeviceItem {
	t.Helper()
	items, err := midi.Discover(f.drv)
	require.NoError(t, err)
	return items
}

func lastEntry(t *testing.T, log *eventlog.Log) eventlog.Entry {
	t.Helper()
	recent := log.Recent(1)
	require.Len(t, recent, 1)
	return recent[0]
}

func TestToggleOpensThenCloses(t *testing.T) {
	f := newFixture(t)
	f.drv.AddPort(midi.Input, "Beta")
	beta := f.discover(t)[0]

	require.NoError(t, f.mgr.Toggle(beta))
	assert.True(t, f.mgr.IsOpen(beta.Identity))
	assert.Equal(t, 1, f.drv.OpenCount())
	assert.Equal(t, "Opened Input: Beta", lastEntry(t, f.log).Text)
	assert.Equal(t, []string{"midiscope"}, f.drv.Labels())

	require.NoError(t, f.mgr.Toggle(beta))
	assert.False(t, f.mgr.IsOpen(beta.Identity))
	assert.Equal(t, 0, f.drv.OpenCount(), "closing must release the driver handle")
	assert.Equal(t, "Closed Input: Beta", lastEntry(t, f.log).Text)

	in, out := f.mgr.Counts()
	assert.Zero(t, in)
	assert.Zero(t, out)
}

func TestToggleKeepsOneConnectionPerIdentity(t *testing.T) {
	f := newFixture(t)
	f.drv.AddPort(midi.Input, "Beta")
	f.drv.AddPort(midi.Output, "Beta")
	items := f.discover(t)

	for i := 0; i < 5; i++ {
		for _, it := range items {
			require.NoError(t, f.mgr.Toggle(it))
			in, out := f.mgr.Counts()
			assert.LessOrEqual(t, in, 1)
			assert.LessOrEqual(t, out, 1)
		}
	}

	// five toggles each: both end up open
	assert.Equal(t, []midi.Identity{
		{Name: "Beta", Kind: midi.Input},
		{Name: "Beta", Kind: midi.Output},
	}, f.mgr.Open())
	assert.Equal(t, 2, f.drv.OpenCount())
}

func TestToggleRejectsOutOfRangeIndex(t *testing.T) {
	f := newFixture(t)
	f.drv.SetPorts(midi.Input, "Alpha", "Beta")
	items := f.discover(t)
	beta := items[1]

	// Beta's port vanished after discovery
	f.drv.SetPorts(midi.Input, "Alpha")

	err := f.mgr.Toggle(beta)
	var stale *midi.StalePortError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, 1, stale.Index)
	assert.Equal(t, 1, stale.Ports)

	assert.False(t, f.mgr.IsOpen(beta.Identity))
	assert.Zero(t, f.drv.OpenCount(), "no connection may be attempted")

	entry := lastEntry(t, f.log)
	assert.Equal(t, eventlog.Error, entry.Kind)
	assert.Contains(t, entry.String(), "Error: ")
}

func TestToggleRejectsReindexedPort(t *testing.T) {
	f := newFixture(t)
	f.drv.SetPorts(midi.Input, "Alpha", "Beta")
	beta := f.discover(t)[1]

	// a new device appeared in front; index 1 is now Alpha
	f.drv.SetPorts(midi.Input, "Zed", "Alpha", "Beta")

	err := f.mgr.Toggle(beta)
	var stale *midi.StalePortError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, "Alpha", stale.Found)
	assert.Zero(t, f.drv.OpenCount(), "must never connect to the wrong device")
}

func TestToggleReportsDriverRejection(t *testing.T) {
	f := newFixture(t)
	cause := errors.New("device busy")
	f.drv.AddPort(midi.Output, "Synth").FailOpen(cause)
	synth := f.discover(t)[0]

	err := f.mgr.Toggle(synth)
	var cerr *midi.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "open", cerr.Op)

	assert.False(t, f.mgr.IsOpen(synth.Identity), "no half-open entries")
	entry := lastEntry(t, f.log)
	assert.Equal(t, eventlog.Error, entry.Kind)
	assert.Contains(t, entry.Text, "device busy")
}

func TestToggleReportsPortListFailure(t *testing.T) {
	f := newFixture(t)
	f.drv.AddPort(midi.Input, "Keys")
	keys := f.discover(t)[0]
	f.drv.FailList(midi.Input, errors.New("subsystem restarting"))

	err := f.mgr.Toggle(keys)
	var cerr *midi.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.False(t, f.mgr.IsOpen(keys.Identity))
}

func TestCloseAllEmptiesBothMaps(t *testing.T) {
	f := newFixture(t)
	f.drv.SetPorts(midi.Input, "A", "B")
	f.drv.SetPorts(midi.Output, "C")
	for _, it := range f.discover(t) {
		require.NoError(t, f.mgr.Toggle(it))
	}
	require.Equal(t, 3, f.drv.OpenCount())

	f.mgr.CloseAll()
	in, out := f.mgr.Counts()
	assert.Zero(t, in)
	assert.Zero(t, out)
	assert.Zero(t, f.drv.OpenCount())
	assert.Equal(t, "Closed all connections (inputs: 2, outputs: 1)", lastEntry(t, f.log).Text)
}

func TestCloseAllWhenNothingOpen(t *testing.T) {
	f := newFixture(t)
	f.mgr.CloseAll()

	assert.Empty(t, f.mgr.Open())
	require.Equal(t, 1, f.log.Len(), "summary entry is emitted even for a no-op")
	assert.Equal(t, "Closed all connections (inputs: 0, outputs: 0)", lastEntry(t, f.log).Text)
}

func TestCloseFailureStillRemovesEntry(t *testing.T) {
	f := newFixture(t)
	f.drv.AddPort(midi.Input, "Keys")
	keys := f.discover(t)[0]
	require.NoError(t, f.mgr.Toggle(keys))

	conns := f.drv.Conns()
	require.Len(t, conns, 1)
	conns[0].FailClose(errors.New("device unplugged"))

	require.NoError(t, f.mgr.Toggle(keys))
	assert.False(t, f.mgr.IsOpen(keys.Identity))

	entries := f.log.Recent(2)
	assert.Equal(t, "Closed Input: Keys", entries[0].Text)
	assert.Equal(t, eventlog.Error, entries[1].Kind)
	assert.True(t, strings.HasPrefix(entries[1].Text, "close Input: Keys"))
}
