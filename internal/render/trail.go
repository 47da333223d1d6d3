package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngenohkevin/crumbdeck-agent/internal/breadcrumb"
	"github.com/ngenohkevin/crumbdeck-agent/internal/panel"
)

const (
	separator  = " › "
	folderIcon = "📁 "
	fileIcon   = "📄 "
)

// Renderer draws trails for a terminal
type Renderer struct {
	selected  lipgloss.Style
	sibling   lipgloss.Style
	separator lipgloss.Style
	empty     lipgloss.Style
}

// New returns a renderer tuned for a light or dark terminal
func New(theme panel.Theme) *Renderer {
	accent, dim := lipgloss.Color("39"), lipgloss.Color("241")
	if theme == panel.ThemeLight {
		accent, dim = lipgloss.Color("25"), lipgloss.Color("245")
	}

	return &Renderer{
		selected:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		sibling:   lipgloss.NewStyle().Foreground(dim),
		separator: lipgloss.NewStyle().Foreground(dim),
		empty:     lipgloss.NewStyle().Italic(true).Foreground(dim),
	}
}

// Path renders the selected entry of every level on one line
func (r *Renderer) Path(result *breadcrumb.Result) string {
	if result.Empty() {
		return r.empty.Render("no active file")
	}

	parts := make([]string, 0, len(result.Trail))
	for _, level := range result.Trail {
		if e, ok := level.Selected(); ok {
			parts = append(parts, r.selected.Render(label(e, result.ShowIcons)))
		}
	}
	return strings.Join(parts, r.separator.Render(separator))
}

// Levels renders one line per level: the selected entry first, then its siblings.
// A level without a selection (a folder's own listing) shows only siblings.
func (r *Renderer) Levels(result *breadcrumb.Result) string {
	if result.Empty() {
		return r.empty.Render("no active file")
	}

	lines := make([]string, 0, len(result.Trail))
	for depth, level := range result.Trail {
		cells := make([]string, 0, len(level.Entries))
		for _, e := range level.Entries {
			style := r.sibling
			if e.Selected {
				style = r.selected
			}
			cells = append(cells, style.Render(label(e, result.ShowIcons)))
		}
		lines = append(lines, strings.Repeat("  ", depth)+strings.Join(cells, "  "))
	}
	return strings.Join(lines, "\n")
}

func label(e breadcrumb.Entry, icons bool) string {
	if !icons {
		return e.Name
	}
	if e.IsDir() {
		return folderIcon + e.Name
	}
	return fileIcon + e.Name
}
