package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})
	log.With(String("batch", "b1")).Debug(context.Background(), "processed",
		Int("trials", 3), Float("rtt", 1.5), Err(errors.New("boom")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "processed", rec["msg"])
	assert.Equal(t, "b1", rec["batch"])
	assert.Equal(t, 3.0, rec["trials"])
	assert.Equal(t, 1.5, rec["rtt"])
	assert.Equal(t, "boom", rec["error"])
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	ctx := context.Background()
	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")
	log.Error(ctx, "shown too")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 2, strings.Count(out, "level="))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"WARNING": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"verbose": "INFO",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in).Level().String(), in)
	}
}

func TestNoop(t *testing.T) {
	log := Noop().With(String("k", "v"))
	assert.NotPanics(t, func() {
		log.Error(context.Background(), "dropped", Err(errors.New("x")))
	})
}
