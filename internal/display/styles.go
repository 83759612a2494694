package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles for game output.
type Styles struct {
	Header    lipgloss.Style
	Stage     lipgloss.Style
	HandInfo  lipgloss.Style
	Actions   lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Human     lipgloss.Style
	AI        lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w. A non-nil profile forces
// the colour profile, which tests use to get plain text.
func NewRenderer(w io.Writer, profile *termenv.Profile) *lipgloss.Renderer {
	if profile == nil {
		return lipgloss.NewRenderer(w)
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(*profile))
	r.SetColorProfile(*profile)
	return r
}

// Plain returns a renderer that never emits escape codes.
func Plain(w io.Writer) *lipgloss.Renderer {
	ascii := termenv.Ascii
	return NewRenderer(w, &ascii)
}

// NewStyles builds styles bound to r.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Stage: r.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),
		HandInfo: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Actions: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FAFAFA"}).
			Bold(true),
		Human: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")),
		AI: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}
