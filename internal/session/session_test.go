package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mdpad/internal/fsx"
	"mdpad/internal/lifecycle"
	"mdpad/internal/state"
)

// memFS is an in-memory FileSystem that counts grants and can inject failures.
type memFS struct {
	files    map[string]string
	dirs     map[string]bool
	acquired int
	released int

	denyAcquire bool
	failRead    error
	failWrite   error
	failMkdir   error
	failCreate  error
}

func newMemFS() *memFS {
	return &memFS{files: map[string]string{}, dirs: map[string]bool{}}
}

func (m *memFS) Acquire(ref fsx.Ref) (fsx.Grant, error) {
	if m.denyAcquire {
		return nil, fsx.ErrAccessDenied
	}
	if _, ok := m.files[ref.Path]; !ok {
		return nil, fmt.Errorf("%w: missing", fsx.ErrAccessDenied)
	}
	m.acquired++
	return &memGrant{fs: m, path: ref.Path}, nil
}

func (m *memFS) MkdirAll(dir string) error {
	if m.failMkdir != nil {
		return m.failMkdir
	}
	m.dirs[dir] = true
	return nil
}

func (m *memFS) Exists(path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func (m *memFS) Create(path string) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.files[path] = ""
	return nil
}

type memGrant struct {
	fs       *memFS
	path     string
	released bool
}

func (g *memGrant) Read() ([]byte, error) {
	if g.released {
		return nil, fsx.ErrAccessDenied
	}
	if g.fs.failRead != nil {
		return nil, g.fs.failRead
	}
	return []byte(g.fs.files[g.path]), nil
}

func (g *memGrant) WriteAtomic(data []byte) error {
	if g.released {
		return fsx.ErrAccessDenied
	}
	if g.fs.failWrite != nil {
		return g.fs.failWrite
	}
	g.fs.files[g.path] = string(data)
	return nil
}

func (g *memGrant) Release() {
	if !g.released {
		g.released = true
		g.fs.released++
	}
}

type fixedDirs struct {
	dir string
	err error
}

func (d fixedDirs) Resolve() (string, error) { return d.dir, d.err }

type opLog []Op

func (l *opLog) observe(op Op, _ *fsx.Ref, _ error) { *l = append(*l, op) }

func newController(fs *memFS, ops *opLog) *Controller {
	d := Deps{
		FS:   fs,
		Dirs: fixedDirs{dir: "/notes"},
		Now:  func() time.Time { return time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC) },
	}
	if ops != nil {
		d.Observe = ops.observe
	}
	return New(d)
}

func TestStartsEmptyViewingWithoutFile(t *testing.T) {
	c := newController(newMemFS(), nil)
	if c.Text() != "" || c.State().Mode != state.Viewing || c.CanEdit() {
		t.Fatalf("unexpected initial state: %+v", c.State())
	}
	if _, ok := c.Ref(); ok {
		t.Fatalf("expected no file reference")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = ""
	c := newController(fs, nil)
	c.SelectFile(fsx.Ref{Path: "/a.md", Name: "a.md"})
	c.ToggleEditing()

	for _, want := range []string{"", "plain", "# h\n\n- ü\n", "trailing\n\n\n"} {
		c.SetText(want)
		if err := c.Save(); err != nil {
			t.Fatalf("save: %v", err)
		}
		c.SetText("scratch")
		if err := c.Load(fsx.Ref{Path: "/a.md"}); err != nil {
			t.Fatalf("load: %v", err)
		}
		if c.Text() != want {
			t.Fatalf("round trip: got %q want %q", c.Text(), want)
		}
	}
}

func TestSelectFileDiscardsUnsavedEdits(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "A"
	fs.files["/b.md"] = "B"
	c := newController(fs, nil)
	c.SelectFile(fsx.Ref{Path: "/a.md"})
	c.ToggleEditing()
	c.SetText("unsaved edits")
	if !c.Dirty() {
		t.Fatalf("expected dirty buffer")
	}

	c.SelectFile(fsx.Ref{Path: "/b.md"})
	if c.Text() != "B" {
		t.Fatalf("expected edits discarded and B loaded, got %q", c.Text())
	}
	if fs.files["/a.md"] != "A" {
		t.Fatalf("selecting a file must not save the previous one, got %q", fs.files["/a.md"])
	}
	if ref, _ := c.Ref(); ref.Path != "/b.md" {
		t.Fatalf("expected /b.md current, got %q", ref.Path)
	}
}

func TestLoadFailureLeavesBuffer(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "A"
	c := newController(fs, nil)
	c.SelectFile(fsx.Ref{Path: "/a.md"})

	for name, setup := range map[string]func(){
		"denied": func() { fs.denyAcquire = true },
		"io":     func() { fs.failRead = fsx.ErrIO },
		"decode": func() { fs.failRead = fsx.ErrDecode },
	} {
		fs.denyAcquire, fs.failRead = false, nil
		setup()
		if err := c.Load(fsx.Ref{Path: "/a.md"}); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
		if c.Text() != "A" {
			t.Fatalf("%s: buffer changed to %q", name, c.Text())
		}
	}
	if fs.acquired != fs.released {
		t.Fatalf("grants leaked: acquired %d released %d", fs.acquired, fs.released)
	}
}

func TestSaveFailureIsSwallowedAndReleasesGrant(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "disk"
	c := newController(fs, nil)
	c.SelectFile(fsx.Ref{Path: "/a.md"})
	c.ToggleEditing()
	c.SetText("edited")
	fs.failWrite = fsx.ErrIO

	if err := c.Save(); !errors.Is(err, fsx.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if c.Text() != "edited" || fs.files["/a.md"] != "disk" {
		t.Fatalf("unexpected state after failed save: buf=%q disk=%q", c.Text(), fs.files["/a.md"])
	}
	if fs.acquired != fs.released {
		t.Fatalf("grants leaked: acquired %d released %d", fs.acquired, fs.released)
	}
}

func TestSaveWithoutFileIsNoop(t *testing.T) {
	fs := newMemFS()
	c := newController(fs, nil)
	if err := c.Save(); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if fs.acquired != 0 {
		t.Fatalf("no grant expected without a file")
	}
}

func TestLeavingEditingSavesThenLoadsOnce(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "A"
	var ops opLog
	c := newController(fs, &ops)
	c.SelectFile(fsx.Ref{Path: "/a.md"})
	c.ToggleEditing()
	c.SetText("A2")
	ops = nil

	c.ToggleEditing()
	if len(ops) != 2 || ops[0] != OpSave || ops[1] != OpLoad {
		t.Fatalf("expected [save load], got %v", ops)
	}
	if c.State().Mode != state.Viewing || fs.files["/a.md"] != "A2" || c.Text() != "A2" {
		t.Fatalf("unexpected state after leaving edit: mode=%v disk=%q buf=%q", c.State().Mode, fs.files["/a.md"], c.Text())
	}
}

func TestLeavingEditingWithoutFileStillRunsNoops(t *testing.T) {
	var ops opLog
	c := newController(newMemFS(), &ops)
	// Editing without a file is unreachable through the toggle; force it.
	c.ui = state.EnterEditing(c.ui)

	c.ToggleEditing()
	if len(ops) != 2 || ops[0] != OpSave || ops[1] != OpLoad {
		t.Fatalf("expected [save load], got %v", ops)
	}
	if c.State().Mode != state.Viewing {
		t.Fatalf("expected Viewing")
	}
}

func TestLeavingEditingReloadsAfterFailedSave(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "disk"
	c := newController(fs, nil)
	c.SelectFile(fsx.Ref{Path: "/a.md"})
	c.ToggleEditing()
	c.SetText("lost")
	fs.failWrite = fsx.ErrIO

	c.ToggleEditing()
	if c.Text() != "disk" {
		t.Fatalf("expected buffer resynchronised with disk, got %q", c.Text())
	}
}

func TestEnterEditingRequiresFile(t *testing.T) {
	var ops opLog
	c := newController(newMemFS(), &ops)
	c.ToggleEditing()
	if c.State().Mode != state.Viewing {
		t.Fatalf("editing must be unreachable without a file")
	}
	if len(ops) != 0 {
		t.Fatalf("entering editing has no side effects, got %v", ops)
	}
}

func TestHelpInertWhileViewing(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "A"
	c := newController(fs, nil)
	c.SelectFile(fsx.Ref{Path: "/a.md"})

	before := c.State()
	c.ToggleHelp()
	if c.State() != before {
		t.Fatalf("help toggle changed state while viewing: %+v", c.State())
	}

	c.ToggleEditing()
	c.ToggleHelp()
	if !c.State().Help {
		t.Fatalf("expected help visible while editing")
	}
	c.ToggleEditing()
	if c.State().Help {
		t.Fatalf("expected help reset when leaving editing")
	}
}

func TestBackgroundSavesOnlyWhileEditing(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "A"
	var ops opLog
	c := newController(fs, &ops)
	hub := lifecycle.NewHub()
	c.Attach(hub)
	defer c.Close()
	c.SelectFile(fsx.Ref{Path: "/a.md"})

	ops = nil
	hub.Publish(lifecycle.Event{Kind: lifecycle.Background})
	if countOps(ops, OpSave) != 0 {
		t.Fatalf("expected no save while viewing, got %v", ops)
	}

	c.ToggleEditing()
	c.SetText("bg")
	ops = nil
	hub.Publish(lifecycle.Event{Kind: lifecycle.Background})
	if countOps(ops, OpSave) != 1 {
		t.Fatalf("expected exactly one save while editing, got %v", ops)
	}
	if fs.files["/a.md"] != "bg" {
		t.Fatalf("expected autosaved content, got %q", fs.files["/a.md"])
	}

	ops = nil
	hub.Publish(lifecycle.Event{Kind: lifecycle.Foreground})
	if len(ops) != 0 {
		t.Fatalf("foreground must not trigger file operations, got %v", ops)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	hub := lifecycle.NewHub()
	c := newController(newMemFS(), nil)
	c.Attach(hub)
	c.Attach(hub)
	if hub.Len() != 1 {
		t.Fatalf("expected a single subscription, got %d", hub.Len())
	}
	c.Close()
	if hub.Len() != 0 {
		t.Fatalf("expected no subscriptions after Close, got %d", hub.Len())
	}
}

func TestCreateNewFile(t *testing.T) {
	fs := newMemFS()
	c := newController(fs, nil)
	if err := c.CreateNewFile(); err != nil {
		t.Fatalf("create: %v", err)
	}
	want := filepath.Join("/notes", "note-20240309-080706.md")
	ref, ok := c.Ref()
	if !ok || ref.Path != want {
		t.Fatalf("expected ref %q, got %q", want, ref.Path)
	}
	if !fs.dirs["/notes"] {
		t.Fatalf("expected directory created")
	}
	if c.Text() != "" || c.State().Mode != state.Editing || c.State().CreationError {
		t.Fatalf("unexpected state after create: %+v text=%q", c.State(), c.Text())
	}
}

func TestCreateNewFileKeepsExistingContent(t *testing.T) {
	fs := newMemFS()
	path := filepath.Join("/notes", "note-20240309-080706.md")
	fs.files[path] = "already here"
	c := newController(fs, nil)
	if err := c.CreateNewFile(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Text() != "already here" {
		t.Fatalf("expected existing file loaded, got %q", c.Text())
	}
}

func TestCreateNewFileFailureLeavesState(t *testing.T) {
	cases := map[string]func(fs *memFS) Locator{
		"no directories": func(*memFS) Locator { return fixedDirs{err: fsx.ErrNoDirectory} },
		"mkdir":          func(fs *memFS) Locator { fs.failMkdir = fsx.ErrNoDirectory; return fixedDirs{dir: "/notes"} },
		"create":         func(fs *memFS) Locator { fs.failCreate = fsx.ErrCreate; return fixedDirs{dir: "/notes"} },
		"read back":      func(fs *memFS) Locator { fs.failRead = fsx.ErrIO; return fixedDirs{dir: "/notes"} },
	}
	for name, setup := range cases {
		fs := newMemFS()
		fs.files["/a.md"] = "A"
		c := newController(fs, nil)
		c.SelectFile(fsx.Ref{Path: "/a.md"})
		c.dirs = setup(fs)

		if err := c.CreateNewFile(); err == nil {
			t.Fatalf("%s: expected failure", name)
		}
		st := c.State()
		ref, _ := c.Ref()
		if !st.CreationError {
			t.Fatalf("%s: expected CreationError", name)
		}
		if ref.Path != "/a.md" || c.Text() != "A" || st.Mode != state.Viewing {
			t.Fatalf("%s: state changed: ref=%q text=%q mode=%v", name, ref.Path, c.Text(), st.Mode)
		}
		c.DismissCreationError()
		if c.State().CreationError {
			t.Fatalf("%s: expected flag cleared on dismiss", name)
		}
	}
}

func TestCreateNewFileOutsideRootsKeepsDocument(t *testing.T) {
	root, notes := t.TempDir(), t.TempDir()
	doc := filepath.Join(root, "a.md")
	if err := os.WriteFile(doc, []byte("OLD DOC"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	c := New(Deps{
		FS:   fsx.OS{Roots: []string{root}},
		Dirs: fsx.Dirs{Documents: notes, Folder: "mdpad"},
		Now:  func() time.Time { return time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC) },
	})
	c.SelectFile(fsx.NewRef(doc))

	err := c.CreateNewFile()
	if !errors.Is(err, fsx.ErrCreate) {
		t.Fatalf("expected ErrCreate, got %v", err)
	}
	st := c.State()
	ref, _ := c.Ref()
	if !st.CreationError || st.Mode != state.Viewing || ref.Path != doc || c.Text() != "OLD DOC" {
		t.Fatalf("state changed: flag=%v mode=%v ref=%q text=%q", st.CreationError, st.Mode, ref.Path, c.Text())
	}
	if _, err := os.Stat(filepath.Join(notes, "mdpad", NewFileName(time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC)))); !os.IsNotExist(err) {
		t.Fatalf("no note should be created outside the roots: %v", err)
	}
}

func TestSetTextIgnoredWhileViewing(t *testing.T) {
	fs := newMemFS()
	fs.files["/a.md"] = "A"
	c := newController(fs, nil)
	c.SelectFile(fsx.Ref{Path: "/a.md"})
	c.SetText("typed")
	if c.Text() != "A" {
		t.Fatalf("viewing buffer must be read-only, got %q", c.Text())
	}
}

func countOps(ops opLog, op Op) int {
	n := 0
	for _, o := range ops {
		if o == op {
			n++
		}
	}
	return n
}
