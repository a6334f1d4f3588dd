package client

import "github.com/charmbracelet/lipgloss"

// styles are built per connection because each SSH session has its own
// terminal color profile.
type styles struct {
	title   lipgloss.Style
	text    lipgloss.Style
	dim     lipgloss.Style
	prompt  lipgloss.Style
	hud     lipgloss.Style
	banner  lipgloss.Style
	warning lipgloss.Style
	self    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		text:    r.NewStyle().Foreground(lipgloss.Color("15")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
		prompt:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		hud:     r.NewStyle().Foreground(lipgloss.Color("7")),
		banner:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		self:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}
