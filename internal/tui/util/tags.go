package util

import (
    "strings"
    "unicode/utf8"

    "mdpad/internal/state"
)

// ComputeTags builds the status chips for the open document.
//
// The returned slice preserves a stable order:
//   Mode, Modified, Plain, Lines, Words, Chars
//
// Rules:
// - Mode is always present; Value holds the state.ViewMode.
// - Modified appears when text differs from the on-disk baseline.
// - Plain appears while Viewing when the renderer fell back to raw text.
// - Counters are omitted when no file is open.
func ComputeTags(text, baseline string, mode state.ViewMode, styled, hasFile bool) []state.Tag {
    tags := make([]state.Tag, 0, 6)
    tags = append(tags, state.Tag{Kind: state.MODE, Value: int(mode)})
    if !hasFile {
        return tags
    }
    if text != baseline {
        tags = append(tags, state.Tag{Kind: state.MODIFIED})
    }
    if mode == state.Viewing && !styled {
        tags = append(tags, state.Tag{Kind: state.PLAIN})
    }
    lines, words, chars := Counts(text)
    tags = append(tags,
        state.Tag{Kind: state.LINES, Value: lines},
        state.Tag{Kind: state.WORDS, Value: words},
        state.Tag{Kind: state.CHARS, Value: chars},
    )
    return tags
}

// Counts returns line, word and rune counts. An empty buffer has zero lines;
// a trailing newline does not start a new line.
func Counts(s string) (lines, words, chars int) {
    chars = utf8.RuneCountInString(s)
    words = len(strings.Fields(s))
    if s == "" {
        return 0, words, chars
    }
    lines = strings.Count(s, "\n")
    if !strings.HasSuffix(s, "\n") {
        lines++
    }
    return lines, words, chars
}
