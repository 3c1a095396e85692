package editor

import (
    "strings"
    "unicode"
    "unicode/utf8"
)

// tabText is what the textarea stores in place of a tab.
const tabText = "    "

// mark is a run of document text the textarea cannot hold, and the text it
// shows in its place. Offsets are in bytes.
type mark struct {
    raw0, raw1     int
    shown0, shown1 int
}

// Buffer keeps the exact document text behind a textarea.
//
// The textarea only holds a cleaned copy: tabs are expanded, carriage returns
// and other control characters are dropped. Each change to that copy is
// narrowed to the spliced range and replayed onto the document, so text the
// user did not touch keeps its original bytes.
type Buffer struct {
    raw   string
    shown string
    marks []mark
    eol   string // line ending used for newlines typed into the editor
}

// NewBuffer wraps the document text raw.
func NewBuffer(raw string) *Buffer {
    b := &Buffer{}
    b.reset(raw)
    return b
}

// Raw returns the document text.
func (b *Buffer) Raw() string { return b.raw }

// Shown returns the text to hand to the textarea.
func (b *Buffer) Shown() string { return b.shown }

func (b *Buffer) reset(raw string) {
    b.raw = raw
    b.shown, b.marks = clean(raw)
    b.eol = "\n"
    if strings.Contains(raw, "\r\n") {
        b.eol = "\r\n"
    }
}

// Apply folds the textarea's value into the document and reports whether
// the document changed.
func (b *Buffer) Apply(value string) bool {
    old := b.shown
    if value == old {
        return false
    }

    p := commonPrefix(old, value)
    s := commonSuffix(old[p:], value[p:])
    for p > 0 && p < len(old) && !utf8.RuneStart(old[p]) {
        p--
    }
    e := len(old) - s
    for e < len(old) && !utf8.RuneStart(old[e]) {
        e++
    }
    // An edit that cuts into an expanded tab replaces the whole tab.
    for _, m := range b.marks {
        if m.shown0 < p && p < m.shown1 {
            p = m.shown0
        }
        if m.shown0 < e && e < m.shown1 {
            e = m.shown1
        }
    }

    repl := value[p : len(value)-(len(old)-e)]
    if b.eol != "\n" {
        repl = strings.ReplaceAll(repl, "\n", b.eol)
    }
    r0, r1 := b.rawAt(p), b.rawAt(e)
    b.reset(b.raw[:r0] + repl + b.raw[r1:])
    return true
}

// rawAt maps a shown offset that is not inside an expanded tab to a document
// offset. Dropped characters sitting exactly at x stay after it.
func (b *Buffer) rawAt(x int) int {
    delta := 0
    for _, m := range b.marks {
        if m.shown1 > x || (m.shown1 == x && m.shown0 == m.shown1) {
            break
        }
        delta = m.raw1 - m.shown1
    }
    return x + delta
}

// clean returns raw as the textarea would store it, plus the marks where the
// two differ.
func clean(raw string) (string, []mark) {
    var sb strings.Builder
    sb.Grow(len(raw))
    var marks []mark
    for i := 0; i < len(raw); {
        r, size := utf8.DecodeRuneInString(raw[i:])
        var sub string
        switch {
        case r == '\n':
            sb.WriteByte('\n')
            i += size
            continue
        case r == '\t':
            sub = tabText
        case r == utf8.RuneError, unicode.IsControl(r):
            sub = ""
        default:
            sb.WriteString(raw[i : i+size])
            i += size
            continue
        }
        at := sb.Len()
        sb.WriteString(sub)
        marks = append(marks, mark{raw0: i, raw1: i + size, shown0: at, shown1: at + len(sub)})
        i += size
    }
    return sb.String(), marks
}

func commonPrefix(a, b string) int {
    n := min(len(a), len(b))
    i := 0
    for i < n && a[i] == b[i] {
        i++
    }
    return i
}

func commonSuffix(a, b string) int {
    n := min(len(a), len(b))
    i := 0
    for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
        i++
    }
    return i
}
