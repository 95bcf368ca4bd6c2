package molcom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	ep, err := ParseEndpoint("(1,2,3) 4 (5, 6, 7)")
	require.NoError(t, err)
	assert.Equal(t, Position{1, 2, 3}, ep.Center)
	assert.Equal(t, 4, ep.Size)
	assert.Equal(t, Position{5, 6, 7}, ep.Release)

	// extra fields are ignored
	ep, err = ParseEndpoint("(1,2,3) 4 (5,6,7) 8 9")
	require.NoError(t, err)
	assert.Equal(t, Position{5, 6, 7}, ep.Release)

	_, err = ParseEndpoint("(1,2,3) 4")
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ParseEndpoint("(1,2,3) big (5,6,7)")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseRelayNode(t *testing.T) {
	rn, err := ParseRelayNode("(5,5,5) 2 (5,6,5) (5,4,5)")
	require.NoError(t, err)
	assert.Equal(t, &RelayNode{
		Center:      Position{5, 5, 5},
		Size:        2,
		InfoRelease: Position{5, 6, 5},
		AckRelease:  Position{5, 4, 5},
	}, rn)

	_, err = ParseRelayNode("(5,5,5) 2 (5,6,5)")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseMicrotubule(t *testing.T) {
	mts, err := ParseMicrotubule("(0,0,0) (3,4,0)")
	require.NoError(t, err)
	assert.Equal(t, Position{3, 4, 0}, mts.End)
	assert.Equal(t, 5.0, mts.Length())

	_, err = ParseMicrotubule("(0,0,0) (3,4)")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseMoleculeBatch(t *testing.T) {
	t.Run("carrier without size", func(t *testing.T) {
		mb, err := ParseMoleculeBatch("100 INFO ACTIVE 3")
		require.NoError(t, err)
		cb, ok := mb.(*CarrierBatch)
		require.True(t, ok)
		assert.Equal(t, 100, cb.Count())
		assert.Equal(t, Informational, cb.Role())
		assert.Equal(t, Active, cb.Movement)
		assert.Equal(t, 3, cb.AdaptiveChanges)
		_, hasSize := cb.Size()
		assert.False(t, hasSize)
	})

	t.Run("carrier with size", func(t *testing.T) {
		mb, err := ParseMoleculeBatch("50  ACK PASSIVE 0 2.5 extra")
		require.NoError(t, err)
		assert.Equal(t, Acknowledgement, mb.Role())
		size, hasSize := mb.Size()
		assert.True(t, hasSize)
		assert.Equal(t, 2.5, size)
	})

	t.Run("noise", func(t *testing.T) {
		mb, err := ParseMoleculeBatch("20 NOISE")
		require.NoError(t, err)
		_, ok := mb.(*NoiseBatch)
		assert.True(t, ok)
		assert.Equal(t, Noise, mb.Role())
		_, hasSize := mb.Size()
		assert.False(t, hasSize)

		mb, err = ParseMoleculeBatch("20 NOISE 1.5")
		require.NoError(t, err)
		size, hasSize := mb.Size()
		assert.True(t, hasSize)
		assert.Equal(t, 1.5, size)
	})

	bad := []string{
		"100",
		"x INFO PASSIVE 1",
		"100 SIGNAL PASSIVE 1",
		"100 INFO PASSIVE",
		"100 INFO DRIFT 1",
		"100 INFO PASSIVE one",
		"100 ACK PASSIVE 1 big",
		"20 NOISE big",
	}
	for _, val := range bad {
		t.Run(val, func(t *testing.T) {
			_, err := ParseMoleculeBatch(val)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestEntityText(t *testing.T) {
	ep := &Endpoint{Center: Position{1, 2, 3}, Size: 4, Release: Position{5, 6, 7}}
	assert.Equal(t, "(1,2,3) 4 (5,6,7)", ep.String())

	mb, err := ParseMoleculeBatch("100 ACK ACTIVE 2 0.5")
	require.NoError(t, err)
	assert.Equal(t, "100 ACK ACTIVE 2 0.5", mb.(*CarrierBatch).String())

	assert.Equal(t, "INFO", Informational.String())
	assert.Equal(t, "PASSIVE", Passive.String())
	assert.Equal(t, "MoleculeRole(7)", MoleculeRole(7).String())
}
