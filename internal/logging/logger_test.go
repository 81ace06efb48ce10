package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "warn"},
		{in: "debug", want: "debug"},
		{in: "INFO", want: "info"},
		{in: "error", want: "error"},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lvl, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl.String())
		})
	}
}

func TestNewWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("hidden", "k", 1)
	log.With("question", "goal_name").Warn("shown", "attempt", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "goal_name")
	assert.Contains(t, out, "attempt")
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error("nothing happens")
	log.Sync()
}
