package molcom

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportRecords() []*ConfigurationRecord {
	return []*ConfigurationRecord{
		{Medium: 200, Distance: 10, StepLength: 1, Duplication: 100, MovementType: 0, Steps: []int{30, 50}},
		{Medium: 100, Distance: 5, StepLength: 11.31, Duplication: 20, MovementType: 1, Steps: []int{8}},
	}
}

func TestRecordWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := CreateRecordWriter(&buf, false)
	for _, cr := range exportRecords() {
		require.NoError(t, rw.Write(cr))
	}
	require.NoError(t, rw.Flush())
	assert.Equal(t, "200,10,1,100,0,30\n200,10,1,100,0,50\n100,5,11.31,20,1,8\n", buf.String())

	buf.Reset()
	rw = CreateRecordWriter(&buf, true)
	for _, cr := range exportRecords() {
		require.NoError(t, rw.Write(cr))
	}
	require.NoError(t, rw.Flush())
	assert.Equal(t, "medium,distance,stepLength,duplication,movementType,step\n"+
		"200,10,1,100,0,30\n200,10,1,100,0,50\n100,5,11.31,20,1,8\n", buf.String())
}

func TestRecordSetFile(t *testing.T) {
	rs := CreateRecordSet("export-test")
	for _, cr := range exportRecords() {
		rs.AddRecord(cr)
	}
	dir := t.TempDir()

	csvFile := filepath.Join(dir, "records.csv")
	require.NoError(t, rs.WriteToFile(csvFile))
	text, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	assert.Equal(t, "200,10,1,100,0,30\n200,10,1,100,0,50\n100,5,11.31,20,1,8\n", string(text))

	for _, name := range []string{"records.yaml", "records.json"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, rs.WriteToFile(filename))

		back, err := ReadRecordSet(filename, filepath.Ext(name) == ".yaml", []byte{})
		require.NoError(t, err)
		assert.Equal(t, rs, back, name)
	}

	assert.Error(t, rs.WriteToFile(filepath.Join(dir, "records.txt")))
}
