package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/duckuio/ducku-cli/internal/core/ports"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	deadStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	entryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// Text renders the human-readable terminal report.
type Text struct {
	// Plain disables styling for non-TTY output.
	Plain bool
}

func NewText(plain bool) *Text { return &Text{Plain: plain} }

func (t *Text) style(s lipgloss.Style, text string) string {
	if t.Plain {
		return text
	}
	return s.Render(text)
}

func (t *Text) Render(result *ports.Result) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString(t.style(titleStyle, fmt.Sprintf("Project %s", result.Project)))
	buf.WriteString("\n")

	if result.Skipped {
		buf.WriteString(t.style(dimStyle, "  unused_modules disabled in project config\n"))
		return []byte(buf.String()), nil
	}

	if len(result.Findings) == 0 {
		buf.WriteString(t.style(headlineStyle, "  no unused modules\n"))
	} else {
		buf.WriteString(fmt.Sprintf("  %d unused module(s)\n", len(result.Findings)))
		for _, f := range result.Findings {
			style := deadStyle
			if f.Classification == ports.LikelyEntryPoint {
				style = entryStyle
			}
			buf.WriteString(fmt.Sprintf("    %s  %s\n",
				t.style(style, string(f.Classification)), f.Path))
		}
	}

	for _, w := range result.Warnings {
		buf.WriteString(t.style(dimStyle, fmt.Sprintf("  warning: %s: %s (%s)\n", w.Path, w.Kind, w.Detail)))
	}

	buf.WriteString(t.style(dimStyle, fmt.Sprintf(
		"  %d files, %d nodes, %d edges, %d roots, %d external refs, %s\n",
		result.Stats.FilesScanned,
		result.Stats.Nodes,
		result.Stats.Edges,
		result.Stats.Roots,
		result.Stats.Externals,
		result.Stats.Duration.Round(time.Millisecond),
	)))
	return []byte(buf.String()), nil
}
