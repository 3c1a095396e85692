// Package session owns the open document, the file it came from, and the
// view flags, and mediates every load and save.
//
// A Controller is not safe for concurrent use. It is driven from a single
// event loop; lifecycle signals must be forwarded into that loop.
package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"mdpad/internal/fsx"
	"mdpad/internal/lifecycle"
	"mdpad/internal/state"
)

// ErrNoFile reports a save or load attempted without a file reference.
var ErrNoFile = errors.New("no file selected")

// Op names a controller file operation for observers.
type Op string

const (
	OpLoad   Op = "load"
	OpSave   Op = "save"
	OpCreate Op = "create"
)

// FileSystem is the file collaborator the controller needs.
type FileSystem interface {
	Acquire(ref fsx.Ref) (fsx.Grant, error)
	MkdirAll(dir string) error
	Exists(path string) (bool, error)
	Create(path string) error
}

// Locator resolves the directory that receives new files.
type Locator interface {
	Resolve() (string, error)
}

// Lifecycle is the subset of lifecycle.Hub the controller subscribes to.
type Lifecycle interface {
	Subscribe(fn func(lifecycle.Event)) (unsubscribe func())
}

// Observer sees the outcome of every load, save and create, including the
// no-op ones (err == ErrNoFile). Failures are otherwise swallowed.
type Observer func(op Op, ref *fsx.Ref, err error)

// Deps wires a Controller to its collaborators. Now and Observe are optional.
type Deps struct {
	FS      FileSystem
	Dirs    Locator
	Now     func() time.Time
	Observe Observer
}

// Controller is the editor session state machine.
type Controller struct {
	fs      FileSystem
	dirs    Locator
	now     func() time.Time
	observe Observer

	text     string
	baseline string // last content loaded from or saved to disk
	ref      *fsx.Ref
	ui       state.UIState

	unsubscribe func()
}

// New returns a Controller with an empty document, no file, in Viewing mode.
func New(d Deps) *Controller {
	c := &Controller{fs: d.FS, dirs: d.Dirs, now: d.Now, observe: d.Observe}
	if c.now == nil {
		c.now = time.Now
	}
	if c.observe == nil {
		c.observe = func(Op, *fsx.Ref, error) {}
	}
	return c
}

// Attach subscribes the background autosave to lc. Calling Attach again
// replaces the previous subscription.
func (c *Controller) Attach(lc Lifecycle) {
	c.Close()
	c.unsubscribe = lc.Subscribe(func(ev lifecycle.Event) {
		if ev.Kind == lifecycle.Background {
			c.OnBackgrounded()
		}
	})
}

// Close removes the lifecycle subscription.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Text returns the document buffer.
func (c *Controller) Text() string { return c.text }

// Baseline returns the content last read from or written to disk.
func (c *Controller) Baseline() string { return c.baseline }

// Dirty reports unsaved edits.
func (c *Controller) Dirty() bool { return c.ref != nil && c.text != c.baseline }

// Ref returns the current file reference, if any.
func (c *Controller) Ref() (fsx.Ref, bool) {
	if c.ref == nil {
		return fsx.Ref{}, false
	}
	return *c.ref, true
}

// State returns a copy of the view flags.
func (c *Controller) State() state.UIState { return c.ui }

// CanEdit reports whether the edit toggle is enabled.
func (c *Controller) CanEdit() bool { return c.ref != nil }

// SetText replaces the buffer with the editor's contents. Ignored outside
// Editing.
func (c *Controller) SetText(s string) {
	if c.ui.Mode != state.Editing {
		return
	}
	c.text = s
}

// Resize records the terminal size.
func (c *Controller) Resize(width, height int) { c.ui = state.Resize(c.ui, width, height) }

// Notify sets the transient status notice.
func (c *Controller) Notify(msg string) { c.ui = state.WithNotice(c.ui, msg) }

// SelectFile makes ref current and loads it, discarding any unsaved edits.
func (c *Controller) SelectFile(ref fsx.Ref) {
	r := ref
	c.ref = &r
	_ = c.load(c.ref)
}

// Load reads ref into the buffer. On failure the buffer is left untouched.
func (c *Controller) Load(ref fsx.Ref) error { return c.load(&ref) }

func (c *Controller) load(ref *fsx.Ref) (err error) {
	defer func() { c.observe(OpLoad, ref, err) }()
	if ref == nil {
		return ErrNoFile
	}
	g, err := c.fs.Acquire(*ref)
	if err != nil {
		return err
	}
	defer g.Release()
	data, err := g.Read()
	if err != nil {
		return err
	}
	c.text = string(data)
	c.baseline = c.text
	return nil
}

// Save writes the buffer to the current file. Without a file it does nothing.
func (c *Controller) Save() (err error) {
	defer func() { c.observe(OpSave, c.ref, err) }()
	if c.ref == nil {
		return ErrNoFile
	}
	g, err := c.fs.Acquire(*c.ref)
	if err != nil {
		return err
	}
	defer g.Release()
	if err := g.WriteAtomic([]byte(c.text)); err != nil {
		return err
	}
	c.baseline = c.text
	return nil
}

// ToggleEditing flips the view mode. Leaving Editing saves and then reloads
// the file so the buffer matches what is on disk. Entering Editing requires a
// file.
func (c *Controller) ToggleEditing() {
	if c.ui.Mode == state.Viewing {
		if c.ref == nil {
			return
		}
		c.ui = state.ToggleMode(c.ui)
		return
	}
	_ = c.Save()
	_ = c.load(c.ref)
	c.ui = state.ToggleMode(c.ui)
}

// ToggleHelp flips the help panel while Editing.
func (c *Controller) ToggleHelp() { c.ui = state.ToggleHelp(c.ui) }

// OnBackgrounded saves when the user leaves the app mid-edit.
func (c *Controller) OnBackgrounded() {
	if c.ui.Mode == state.Editing {
		_ = c.Save()
	}
}

// NewFileName returns the timestamped name used by CreateNewFile.
func NewFileName(t time.Time) string {
	return "note-" + t.Format("20060102-150405") + ".md"
}

// CreateNewFile creates an empty timestamped file in the preferred directory,
// opens it and switches to Editing. Any failure, including a new file that
// cannot be read back, raises the creation error flag and leaves everything
// else as it was.
func (c *Controller) CreateNewFile() (err error) {
	var ref *fsx.Ref
	defer func() { c.observe(OpCreate, ref, err) }()

	path, err := c.prepareNewFile()
	if err != nil {
		c.ui = state.SetCreationError(c.ui)
		return err
	}
	r := fsx.NewRef(path)
	ref = &r
	if err := c.load(ref); err != nil {
		c.ui = state.SetCreationError(c.ui)
		return fmt.Errorf("%w: %v", fsx.ErrCreate, err)
	}
	c.ref = ref
	c.ui = state.EnterEditing(c.ui)
	return nil
}

func (c *Controller) prepareNewFile() (string, error) {
	if c.dirs == nil {
		return "", fmt.Errorf("%w: no directory locator", fsx.ErrNoDirectory)
	}
	dir, err := c.dirs.Resolve()
	if err != nil {
		return "", err
	}
	if err := c.fs.MkdirAll(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, NewFileName(c.now()))
	exists, err := c.fs.Exists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := c.fs.Create(path); err != nil {
			return "", err
		}
	}
	return path, nil
}

// DismissCreationError acknowledges the creation failure alert.
func (c *Controller) DismissCreationError() { c.ui = state.DismissCreationError(c.ui) }
