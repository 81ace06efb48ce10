package prompt

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPurple = lipgloss.Color("#7D56F4")
	ColorGreen  = lipgloss.Color("#25A065")
	ColorRed    = lipgloss.Color("#E05252")
	ColorYellow = lipgloss.Color("#E5C07B")
	ColorGray   = lipgloss.Color("#626262")
	ColorCyan   = lipgloss.Color("#56B6C2")
)

// Styles holds the text styles used by a Console. Styles are bound to the
// console's renderer so that non-terminal writers get plain text.
type Styles struct {
	Question   lipgloss.Style
	Hint       lipgloss.Style
	Choice     lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Notice     lipgloss.Style
	Success    lipgloss.Style
	Transcript lipgloss.Style
	Answer     lipgloss.Style
}

// NewStyles returns the default styles for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Question: r.NewStyle().
			Bold(true).
			Foreground(ColorPurple),
		Hint: r.NewStyle().
			Foreground(ColorGray),
		Choice: r.NewStyle(),
		Selected: r.NewStyle().
			Bold(true).
			Foreground(ColorCyan),
		Error: r.NewStyle().
			Foreground(ColorRed),
		Notice: r.NewStyle().
			Foreground(ColorYellow),
		Success: r.NewStyle().
			Foreground(ColorGreen),
		Transcript: r.NewStyle().
			Foreground(ColorGray),
		Answer: r.NewStyle().
			Foreground(ColorCyan),
	}
}
