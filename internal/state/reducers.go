package state

// ToggleMode flips between Viewing and Editing. Leaving Editing always
// hides the help panel.
func ToggleMode(s UIState) UIState {
    if s.Mode == Viewing {
        s.Mode = Editing
        return s
    }
    s.Mode = Viewing
    s.Help = false
    return s
}

// ToggleHelp flips the help panel while Editing and does nothing otherwise.
func ToggleHelp(s UIState) UIState {
    if s.Mode != Editing {
        return s
    }
    s.Help = !s.Help
    return s
}

// EnterEditing forces Editing without touching the help flag.
func EnterEditing(s UIState) UIState {
    s.Mode = Editing
    return s
}

// SetCreationError raises the one-shot creation failure flag.
func SetCreationError(s UIState) UIState {
    s.CreationError = true
    return s
}

// DismissCreationError clears the creation failure flag.
func DismissCreationError(s UIState) UIState {
    s.CreationError = false
    return s
}

// Resize records the terminal size.
func Resize(s UIState, width, height int) UIState {
    s.Width = width
    s.Height = height
    return s
}

// WithNotice sets the transient status message ("" clears it).
func WithNotice(s UIState, notice string) UIState {
    s.Notice = notice
    return s
}
