package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// Console reads answers line by line from one stream and writes styled
// prompts to another. It also keeps the transcript of answered questions.
type Console struct {
	in         *bufio.Reader
	out        io.Writer
	styles     Styles
	redraw     bool
	now        func() time.Time
	transcript []string
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithLiveRedraw enables clearing and reprinting the transcript after each
// answer. It only takes effect when the output is a terminal.
func WithLiveRedraw(enabled bool) ConsoleOption {
	return func(c *Console) { c.redraw = enabled }
}

// WithClock replaces time.Now, for "now" answers.
func WithClock(now func() time.Time) ConsoleOption {
	return func(c *Console) { c.now = now }
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) ConsoleOption {
	return func(c *Console) { c.styles = s }
}

// NewConsole creates a console over in and out.
func NewConsole(in io.Reader, out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		in:     bufio.NewReader(in),
		out:    out,
		styles: NewStyles(lipgloss.NewRenderer(out)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Live reports whether redraws will clear the screen.
func (c *Console) Live() bool {
	return c.redraw && IsTerminal(c.out)
}

// Now returns the console clock's current time.
func (c *Console) Now() time.Time { return c.now() }

// Styles returns the console styles.
func (c *Console) Styles() Styles { return c.styles }

// ReadLine reads one line without its terminator. A final line without a
// newline is returned normally; io.EOF is only returned when nothing was
// read.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask writes the question, its hint and any extra lines, then the input
// marker.
func (c *Console) Ask(question, hint string, lines []string) {
	head := c.styles.Question.Render(question)
	if hint != "" {
		head += " " + c.styles.Hint.Render(hint)
	}
	fmt.Fprintln(c.out, head)
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
	fmt.Fprint(c.out, c.styles.Hint.Render("> "))
}

// Reject writes a rejection message.
func (c *Console) Reject(r *Rejection) {
	fmt.Fprintln(c.out, c.styles.Error.Render("ERROR: "+r.Message))
}

// Notice writes an informational line.
func (c *Console) Notice(msg string) {
	fmt.Fprintln(c.out, c.styles.Notice.Render(msg))
}

// Success writes a confirmation line.
func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, c.styles.Success.Render(msg))
}

// Println writes unstyled text.
func (c *Console) Println(text string) {
	fmt.Fprintln(c.out, text)
}

// Blank writes n empty lines.
func (c *Console) Blank(n int) {
	if n > 0 {
		fmt.Fprint(c.out, strings.Repeat("\n", n))
	}
}

// Record appends an answered question to the transcript and redraws it
// when the console is live.
func (c *Console) Record(question, answer string) {
	c.transcript = append(c.transcript, question+" "+c.styles.Answer.Render(answer))
	if c.Live() {
		c.Redraw()
	}
}

// Transcript returns the recorded lines.
func (c *Console) Transcript() []string {
	return append([]string(nil), c.transcript...)
}

// Redraw clears the screen and reprints the transcript.
func (c *Console) Redraw() {
	fmt.Fprint(c.out, clearScreen)
	for _, l := range c.transcript {
		fmt.Fprintln(c.out, c.styles.Transcript.Render(l))
	}
}
