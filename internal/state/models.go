package state

// ViewMode selects which representation of the document is shown.
type ViewMode int

const (
    Viewing ViewMode = iota
    Editing
)

func (m ViewMode) String() string {
    if m == Editing {
        return "EDIT"
    }
    return "VIEW"
}

// UIState holds the session's view flags. It is a value type; reducers
// return a modified copy.
type UIState struct {
    // Mode & panels
    Mode ViewMode
    Help bool // only ever true while Mode == Editing

    // Set when the last new-file attempt failed; cleared on dismiss.
    CreationError bool

    // Layout
    Width  int
    Height int

    // Notices and ephemeral messages
    Notice string
}
