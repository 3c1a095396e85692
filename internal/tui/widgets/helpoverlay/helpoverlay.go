package helpoverlay

import (
    "fmt"
    "strings"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// Sections is the markdown cheat sheet shown next to the editor.
var Sections = []struct {
    Title string
    Lines []string
}{
    {"Headings", []string{"# Title", "## Section", "### Subsection"}},
    {"Emphasis", []string{"*italic*  _italic_", "**bold**  __bold__", "~~strike~~", "`code`"}},
    {"Lists", []string{"- item", "1. first", "- [ ] task", "- [x] done"}},
    {"Blocks", []string{"> quote", "```lang … ```", "---  (rule)"}},
    {"Links", []string{"[text](https://…)", "![alt](image.png)"}},
    {"Tables", []string{"| a | b |", "|---|---|", "| 1 | 2 |"}},
}

// View returns the markdown cheat sheet followed by the key help.
func (HelpOverlay) View(keys string) string {
    var b strings.Builder
    b.WriteString("Markdown\n")
    for _, sec := range Sections {
        fmt.Fprintf(&b, "\n%s:\n", sec.Title)
        for _, l := range sec.Lines {
            fmt.Fprintf(&b, "  %s\n", l)
        }
    }
    if keys != "" {
        fmt.Fprintf(&b, "\nKeys:\n%s\n", keys)
    }
    return b.String()
}
