package state

// TagKind enumerates the status chips shown for the open document.
type TagKind int

const (
    // Stable ordering for display: Mode, Modified, Plain, Lines, Words, Chars
    MODE TagKind = iota
    MODIFIED
    PLAIN
    LINES
    WORDS
    CHARS
)

// Tag represents a single status chip. Value carries the counter for
// LINES/WORDS/CHARS and the ViewMode for MODE; other tags use Value = 0.
type Tag struct {
    Kind  TagKind
    Value int
}
