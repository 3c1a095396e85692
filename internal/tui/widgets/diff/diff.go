package diff

import (
    "strings"

    "github.com/charmbracelet/lipgloss"
    dmp "github.com/sergi/go-diff/diffmatchpatch"
)

var (
    delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
    addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
    faint   = lipgloss.NewStyle().Faint(true)
)

type DiffView struct {
    NoColor bool
}

func NewDiffView(noColor bool) DiffView { return DiffView{NoColor: noColor} }

// View renders a line-level unified diff from the on-disk baseline to the
// current buffer. Unchanged lines are shown faint with two spaces of gutter.
func (v DiffView) View(baseline, buffer string) string {
    if baseline == buffer {
        return "No unsaved changes\n"
    }
    var b strings.Builder
    b.WriteString("DISK → BUFFER\n")
    for _, ln := range Lines(baseline, buffer) {
        switch ln.Op {
        case dmp.DiffDelete:
            b.WriteString(v.style(delLine, "- "+ln.Text))
        case dmp.DiffInsert:
            b.WriteString(v.style(addLine, "+ "+ln.Text))
        default:
            b.WriteString(v.style(faint, "  "+ln.Text))
        }
        b.WriteString("\n")
    }
    return b.String()
}

func (v DiffView) style(s lipgloss.Style, text string) string {
    if v.NoColor {
        return text
    }
    return s.Render(text)
}

// Line is one line of a line-mode diff.
type Line struct {
    Op   dmp.Operation
    Text string
}

// Lines diffs before and after line by line.
func Lines(before, after string) []Line {
    d := dmp.New()
    a, b, table := d.DiffLinesToChars(before, after)
    diffs := d.DiffMain(a, b, false)
    diffs = d.DiffCharsToLines(diffs, table)
    var out []Line
    for _, df := range diffs {
        text := strings.TrimSuffix(df.Text, "\n")
        for _, l := range strings.Split(text, "\n") {
            out = append(out, Line{Op: df.Type, Text: l})
        }
    }
    return out
}
