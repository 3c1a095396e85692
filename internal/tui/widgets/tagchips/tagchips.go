package tagchips

import (
    "fmt"
    "os"
    "strings"

    "github.com/charmbracelet/lipgloss"

    "mdpad/internal/state"
    "mdpad/internal/tui/util"
)

// View renders document status tags in a stable order using colored chips
// when possible and ASCII fallbacks when color is disabled.
func View(tags []state.Tag, noColor bool) string {
    if len(tags) == 0 {
        return ""
    }
    // Honor NO_COLOR env var in addition to explicit param
    if !noColor && os.Getenv("NO_COLOR") != "" {
        noColor = true
    }

    parts := make([]string, 0, len(tags))
    for _, t := range tags {
        parts = append(parts, renderChip(t, noColor))
    }
    return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool) string {
    label := chipLabel(t)
    if noColor {
        return fmt.Sprintf("[%s]", label)
    }
    return chipStyle(t).Render(label)
}

func chipLabel(t state.Tag) string {
    switch t.Kind {
    case state.MODE:
        return state.ViewMode(t.Value).String()
    case state.MODIFIED:
        return "Modified"
    case state.PLAIN:
        return "Plain"
    case state.LINES:
        return fmt.Sprintf("%d lines", t.Value)
    case state.WORDS:
        return fmt.Sprintf("%d words", t.Value)
    case state.CHARS:
        return fmt.Sprintf("%d chars", t.Value)
    default:
        return "Tag"
    }
}

func chipStyle(t state.Tag) lipgloss.Style {
    p := util.DefaultPalette()
    base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
    white := lipgloss.Color("#FFFFFF")
    switch t.Kind {
    case state.MODE:
        if state.ViewMode(t.Value) == state.Editing {
            return base.Background(p.Editing).Foreground(white)
        }
        return base.Background(p.Viewing).Foreground(white)
    case state.MODIFIED:
        return base.Background(p.Modified).Foreground(lipgloss.Color("#111111"))
    case state.PLAIN:
        return base.Background(p.Plain).Foreground(white)
    default:
        return lipgloss.NewStyle().Foreground(p.Muted)
    }
}
