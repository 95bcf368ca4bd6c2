package molcom

import (
	"path/filepath"
	"testing"

	"github.com/iti/evt/vrtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceManagerInactive(t *testing.T) {
	tm := CreateTraceManager("off", false)
	assert.False(t, tm.Active())
	tm.AddName(0, "a.dat")
	tm.AddTrace(vrtime.SecondsToTime(1.0), 0, TraceProcessed, "")
	assert.Empty(t, tm.Traces)
	assert.Empty(t, tm.NameByID)

	written, err := tm.WriteToFile(filepath.Join(t.TempDir(), "trace.yaml"), true)
	require.NoError(t, err)
	assert.False(t, written)
}

func TestTraceManagerOrdered(t *testing.T) {
	tm := CreateTraceManager("on", true)
	tm.AddName(0, "a.dat")
	tm.AddName(1, "b.dat")
	tm.AddTrace(vrtime.SecondsToTime(0.0), 0, TraceScheduled, "")
	tm.AddTrace(vrtime.SecondsToTime(0.0), 1, TraceScheduled, "")
	tm.AddTrace(vrtime.SecondsToTime(2.0), 0, TraceExported, "out.csv")
	tm.AddTrace(vrtime.SecondsToTime(1.0), 1, TraceFailed, "missing")
	tm.AddTrace(vrtime.SecondsToTime(0.0), 0, TraceProcessed, "")

	ordered := tm.Ordered()
	require.Len(t, ordered, 5)
	got := make([]string, 0, len(ordered))
	for _, trc := range ordered {
		got = append(got, trc.Descriptor+":"+trc.Op)
	}
	assert.Equal(t, []string{
		"a.dat:scheduled", "a.dat:processed", "b.dat:scheduled", "b.dat:failed", "a.dat:exported",
	}, got)
	assert.Equal(t, "out.csv", ordered[4].Detail)
	assert.Equal(t, "2", ordered[4].TraceTime)
}

func TestTraceManagerWriteToFile(t *testing.T) {
	tm := CreateTraceManager("on", true)
	tm.AddName(3, "c.dat")
	tm.AddTrace(vrtime.SecondsToTime(3.0), 3, TraceProcessed, "rtt=1")

	dir := t.TempDir()
	for _, name := range []string{"trace.yaml", "trace.json"} {
		written, err := tm.WriteToFile(filepath.Join(dir, name), false)
		require.NoError(t, err)
		assert.True(t, written)
	}
	_, err := tm.WriteToFile(filepath.Join(dir, "trace.txt"), true)
	assert.Error(t, err)
}
