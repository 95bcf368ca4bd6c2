package molcom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKey(t *testing.T) {
	tests := map[string]KeyKind{
		"transmitter":        EndpointKey,
		"receiver":           EndpointKey,
		"intermediateNode":   RelayKey,
		"intermediateNode2":  RelayKey,
		"intermediateNodeX":  IntKey,
		"moleculeParams":     MoleculeKey,
		"moleculeParamsOld":  IntKey,
		"microtubuleParams":  MicrotubuleKey,
		"stepLengthX":        FloatKey,
		"probDRail":          FloatKey,
		"outputFile":         StringKey,
		"useCollisions":      FlagKey,
		"decomposing":        FlagKey,
		"mediumDimensionX":   IntKey,
		"numMicrotubuleGaps": IntKey,
	}
	for key, want := range tests {
		assert.Equal(t, want, ClassifyKey(key), key)
	}
}

func TestParseDescriptor(t *testing.T) {
	cm, err := ParseDescriptor(strings.NewReader(sampleDescriptor))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"transmitter", "receiver", "intermediateNode", "moleculeParams", "microtubuleParams",
		"mediumDimensionX", "stepLengthX", "probDRail", "outputFile", "useCollisions",
		"useAcknowledgements", "numTrials",
	}, cm.Keys())

	tx, err := cm.Transmitter()
	require.NoError(t, err)
	assert.Equal(t, Position{0, 0, 0}, tx.Center)
	rx, err := cm.Receiver()
	require.NoError(t, err)
	assert.Equal(t, Position{10, 0, 0}, rx.Center)
	assert.Equal(t, 5, rx.Size)

	rn, err := cm.Relay("intermediateNode")
	require.NoError(t, err)
	assert.Equal(t, Position{5, 4, 5}, rn.AckRelease)

	batches := cm.MoleculeBatches()
	require.Len(t, batches, 3)
	assert.Equal(t, Informational, batches[0].Role())
	assert.Equal(t, Acknowledgement, batches[1].Role())
	assert.Equal(t, Noise, batches[2].Role())
	require.Len(t, cm.Microtubules(), 1)

	medium, err := cm.Int(MediumDimensionXKey)
	require.NoError(t, err)
	assert.Equal(t, 200, medium)
	step, err := cm.Float(StepLengthXKey)
	require.NoError(t, err)
	assert.Equal(t, 1.0, step)
	out, err := cm.OutputFile()
	require.NoError(t, err)
	assert.Equal(t, "out.txt", out)

	assert.True(t, cm.Flag("useCollisions"))
	assert.False(t, cm.Flag("useAcknowledgements"))
	assert.False(t, cm.Flag("decomposing"))
	assert.True(t, cm.Has(MoleculeParamsKey))
	assert.False(t, cm.Has("decomposing"))
}

func TestParseDescriptorOverwrite(t *testing.T) {
	text := "transmitter (0,0,0) 1 (0,0,0)\ntransmitter (1,1,1) 2 (1,1,1)\nnumTrials 3\nnumTrials 4\n"
	cm, err := ParseDescriptor(strings.NewReader(text))
	require.NoError(t, err)
	tx, err := cm.Transmitter()
	require.NoError(t, err)
	assert.Equal(t, 2, tx.Size)
	n, err := cm.Int("numTrials")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"transmitter", "numTrials"}, cm.Keys())
}

func TestParseDescriptorErrors(t *testing.T) {
	tests := map[string]string{
		"no value":        "numTrials\n",
		"bad integer":     "numTrials many\n",
		"bad float":       "stepLengthX long\n",
		"bad endpoint":    "receiver (1,2,3)\n",
		"bad molecule":    "moleculeParams 10 INFO\n",
		"bad microtubule": "microtubuleParams (0,0,0)\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDescriptor(strings.NewReader(text))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestConfigMapMissing(t *testing.T) {
	cm, err := ParseDescriptor(strings.NewReader("* nothing\n\nnumTrials 2\n"))
	require.NoError(t, err)

	_, err = cm.Transmitter()
	assert.ErrorIs(t, err, ErrMissingEntity)
	_, err = cm.OutputFile()
	assert.ErrorIs(t, err, ErrMissingEntity)
	_, err = cm.FirstMoleculeBatch()
	assert.ErrorIs(t, err, ErrMissingEntity)

	// a key holding another type is a format error, not a missing one
	_, err = cm.Float("numTrials")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDescriptorRoundTrip(t *testing.T) {
	cm, err := ParseDescriptor(strings.NewReader(sampleDescriptor))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cm.WriteDescriptor(&buf))

	again, err := ParseDescriptor(&buf)
	require.NoError(t, err)
	assert.Equal(t, cm.Keys(), again.Keys())
	assert.Equal(t, cm.MoleculeBatches(), again.MoleculeBatches())
	assert.Equal(t, cm.Microtubules(), again.Microtubules())
	assert.Equal(t, cm.values, again.values)
}

func TestReadDescriptor(t *testing.T) {
	dir := t.TempDir()
	descPath := filepath.Join(dir, "exp.dat")
	require.NoError(t, os.WriteFile(descPath, []byte(sampleDescriptor), 0o644))

	cm, err := ReadDescriptor(descPath)
	require.NoError(t, err)
	assert.True(t, cm.Has(TransmitterKey))

	_, err = ReadDescriptor(filepath.Join(dir, "absent.dat"))
	assert.Error(t, err)
}
