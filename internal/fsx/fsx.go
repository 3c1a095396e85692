// Package fsx is the file layer: references to user-chosen files, scoped
// access grants, atomic replacement, and the directory that receives new
// notes.
package fsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrAccessDenied = errors.New("access denied")
	ErrIO           = errors.New("i/o failure")
	ErrDecode       = errors.New("not valid UTF-8 text")
	ErrNoDirectory  = errors.New("no usable directory")
	ErrCreate       = errors.New("file creation failed")
)

// Ref identifies a user-chosen file. It carries no data of its own.
type Ref struct {
	Path string
	Name string // display name
}

// NewRef builds a Ref for path with its base name as display name.
func NewRef(path string) Ref {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return Ref{Path: path, Name: filepath.Base(path)}
}

func (r Ref) String() string { return r.Path }

// Grant is a scoped access permission on one file. Every I/O on a user file
// goes through a Grant; after Release the grant refuses further I/O.
type Grant interface {
	Read() ([]byte, error)
	WriteAtomic(data []byte) error
	Release()
}

// OS is the real file system. When Roots is non-empty, grants are only
// handed out for paths inside one of them.
type OS struct {
	Roots []string
}

// Acquire opens ref and takes an advisory exclusive lock on it. The caller
// must Release the grant on every exit path.
func (o OS) Acquire(ref Ref) (Grant, error) {
	abs, err := filepath.Abs(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	if !o.permitted(abs) {
		return nil, fmt.Errorf("%w: %s is outside permitted roots", ErrAccessDenied, abs)
	}
	unlock, err := lockPath(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return &fileGrant{path: abs, unlock: unlock}, nil
}

func (o OS) permitted(abs string) bool {
	if len(o.Roots) == 0 {
		return true
	}
	for _, root := range o.Roots {
		r, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(r, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// MkdirAll creates dir and any missing parents.
func (OS) MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrNoDirectory, err)
	}
	return nil
}

// Exists reports whether path exists. Errors other than not-exist are returned.
func (OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrIO, err)
}

// Create makes an empty file at path. It fails if the file already exists or
// lies outside the permitted roots.
func (o OS) Create(path string) error {
	if abs, err := filepath.Abs(path); err != nil || !o.permitted(abs) {
		return fmt.Errorf("%w: %s is outside permitted roots", ErrCreate, path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}
	return nil
}

type fileGrant struct {
	path     string
	unlock   func()
	released bool
}

func (g *fileGrant) Read() ([]byte, error) {
	if g.released {
		return nil, fmt.Errorf("%w: grant released", ErrAccessDenied)
	}
	data, err := os.ReadFile(g.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, g.path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrDecode, g.path)
	}
	return data, nil
}

// WriteAtomic replaces the file with data via a temp file in the same
// directory and a rename, so the target is either fully old or fully new.
func (g *fileGrant) WriteAtomic(data []byte) error {
	if g.released {
		return fmt.Errorf("%w: grant released", ErrAccessDenied)
	}
	dir := filepath.Dir(g.path)
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(g.path); err == nil {
		perm = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(g.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrIO, err)
	}
	tmpPath := tmp.Name()
	fail := func(step string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrIO, step, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fail("write temp", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync temp", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail("chmod temp", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp: %v", ErrIO, err)
	}
	if err := os.Rename(tmpPath, g.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %v", ErrIO, err)
	}
	return nil
}

func (g *fileGrant) Release() {
	if g.released {
		return
	}
	g.released = true
	g.unlock()
}
