package util

import (
    "os"

    "github.com/charmbracelet/lipgloss"
)

// NoColor returns true if color output should be disabled.
func NoColor(explicit bool) bool {
    if explicit {
        return true
    }
    return os.Getenv("NO_COLOR") != ""
}

// Palette defines a small set of colors used across widgets.
type Palette struct {
    Viewing  lipgloss.Color
    Editing  lipgloss.Color
    Modified lipgloss.Color
    Plain    lipgloss.Color
    Muted    lipgloss.Color
    Danger   lipgloss.Color
}

// DefaultPalette returns the default palette.
func DefaultPalette() Palette {
    return Palette{
        Viewing:  lipgloss.Color("#3D6DFF"),
        Editing:  lipgloss.Color("#2AA876"),
        Modified: lipgloss.Color("#F0AD4E"),
        Plain:    lipgloss.Color("#5A5A5A"),
        Muted:    lipgloss.Color("#6C757D"),
        Danger:   lipgloss.Color("#D9534F"),
    }
}
