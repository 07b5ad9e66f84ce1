package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// Palette.
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1D6FA3", Dark: "#2CB5E8"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#2ECC71"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B7950B", Dark: "#F4D03F"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E74C3C"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#7F8C8D", Dark: "#95A5A6"}
)

// Styles are the lipgloss styles used by a Renderer.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	RuleID  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(colorAccent).Underline(true),
		Header2: r.NewStyle().Bold(true).Foreground(colorAccent),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Success: r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Info:    r.NewStyle().Foreground(colorAccent),
		RuleID:  r.NewStyle().Bold(true).Foreground(colorAccent),
	}
}

// Priority returns the style for a violation priority.
func (s *Styles) Priority(p arch.Priority) lipgloss.Style {
	switch p {
	case arch.PriorityHigh:
		return s.Error
	case arch.PriorityLow:
		return s.Info
	default:
		return s.Warning
	}
}
