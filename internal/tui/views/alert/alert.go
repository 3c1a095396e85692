package alert

import (
    "github.com/charmbracelet/lipgloss"
)

const (
    Title   = "Could not create file"
    Message = "No writable location was found for a new document."
    Hint    = "enter/esc: OK"
)

var box = lipgloss.NewStyle().
    Border(lipgloss.RoundedBorder()).
    BorderForeground(lipgloss.Color("#D9534F")).
    Padding(1, 3)

// Render returns the creation-failure alert centered in width×height.
func Render(width, height int, noColor bool) string {
    title := lipgloss.NewStyle().Bold(true).Render(Title)
    body := lipgloss.JoinVertical(lipgloss.Center, title, "", Message, "", Hint)
    style := box
    if noColor {
        style = style.UnsetBorderForeground()
    }
    dialog := style.Render(body)
    if width <= 0 || height <= 0 {
        return dialog
    }
    return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
