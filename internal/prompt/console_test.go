package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReadLine(t *testing.T) {
	c := NewConsole(strings.NewReader("first\r\nsecond\nlast"), io.Discard)

	for _, want := range []string{"first", "second", "last"} {
		got, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsoleAskWritesQuestionHintAndLines(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)

	c.Ask("Pick one", "(1-2)", []string{"  1) a", "  2) b"})

	got := out.String()
	assert.Contains(t, got, "Pick one (1-2)\n")
	assert.Contains(t, got, "  2) b\n")
	assert.True(t, strings.HasSuffix(got, "> "))
}

func TestConsoleRejectAndNotice(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)

	c.Reject(Rejectf(KindRange, "15 is too small"))
	c.Notice("selected: a")
	c.Success("saved")
	c.Blank(2)

	assert.Equal(t, "ERROR: 15 is too small\nselected: a\nsaved\n\n\n", out.String())
}

func TestConsoleRecordDoesNotClearNonTerminal(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out, WithLiveRedraw(true))

	c.Record("Alias?", "run")

	assert.False(t, c.Live())
	assert.Empty(t, out.String())
	assert.Equal(t, []string{"Alias? run"}, c.Transcript())
}

func TestConsoleRedrawClearsAndReprints(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)
	c.Record("Alias?", "run")
	c.Record("Priority?", "3")

	c.Redraw()

	assert.Equal(t, clearScreen+"Alias? run\nPriority? 3\n", out.String())
}

func TestConsoleClock(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	c := NewConsole(strings.NewReader(""), io.Discard, WithClock(func() time.Time { return fixed }))
	assert.Equal(t, fixed, c.Now())
}
