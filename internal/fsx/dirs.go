package fsx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Dirs resolves where new files are created. Cloud is preferred when it
// names an existing directory; Documents is the fallback and is created on
// demand. Folder is appended to whichever base wins.
type Dirs struct {
	Cloud     string
	Documents string
	Folder    string
}

// Resolve returns the target directory for new files.
func (d Dirs) Resolve() (string, error) {
	if d.Cloud != "" {
		if fi, err := os.Stat(d.Cloud); err == nil && fi.IsDir() {
			return filepath.Join(d.Cloud, d.Folder), nil
		}
	}
	if d.Documents != "" {
		return filepath.Join(d.Documents, d.Folder), nil
	}
	return "", fmt.Errorf("%w: neither a cloud container nor a documents directory is available", ErrNoDirectory)
}

// DefaultCloudDir returns the synchronized container for this platform, or ""
// when there is none. MDPAD_CLOUD_DIR wins over discovery.
func DefaultCloudDir() string {
	if v := os.Getenv("MDPAD_CLOUD_DIR"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if runtime.GOOS == "darwin" {
		icloud := filepath.Join(home, "Library", "Mobile Documents", "com~apple~CloudDocs")
		if fi, err := os.Stat(icloud); err == nil && fi.IsDir() {
			return icloud
		}
	}
	return ""
}

// DefaultDocumentsDir returns $XDG_DOCUMENTS_DIR or ~/Documents.
func DefaultDocumentsDir() string {
	if v := os.Getenv("XDG_DOCUMENTS_DIR"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents")
}
