package editor

import (
    "github.com/charmbracelet/bubbles/textarea"
)

// New returns a textarea configured as a raw document editor: no character
// limit, no placeholder noise, optional line numbers.
func New(lineNumbers bool) textarea.Model {
    ta := textarea.New()
    ta.CharLimit = 0
    ta.MaxHeight = 0
    ta.ShowLineNumbers = lineNumbers
    ta.Placeholder = "Start typing…"
    ta.Prompt = ""
    return ta
}

// Resize fits the editor into a width×height box.
func Resize(ta *textarea.Model, width, height int) {
    if width < 1 {
        width = 1
    }
    if height < 1 {
        height = 1
    }
    ta.SetWidth(width)
    ta.SetHeight(height)
}
