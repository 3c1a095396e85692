package statusbar

import (
    "strings"

    "mdpad/internal/state"
)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes the status line: file name, status chips, and any notice.
func (StatusBar) View(s state.UIState, fileName, chips string) string {
    name := fileName
    if name == "" {
        name = "(no file)"
    }
    parts := []string{name}
    if chips != "" {
        parts = append(parts, chips)
    }
    if s.Notice != "" {
        parts = append(parts, s.Notice)
    }
    return strings.Join(parts, "  ")
}
