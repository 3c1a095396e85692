package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"

    "mdpad/internal/fsx"
)

// Config is the persisted user configuration. Flags override these values.
type Config struct {
    Style        string   `json:"style,omitempty"`         // glamour style name or JSON style path
    WrapWidth    int      `json:"wrap_width,omitempty"`    // 0 = terminal width
    CloudDir     string   `json:"cloud_dir,omitempty"`     // synchronized container for new files
    DocumentsDir string   `json:"documents_dir,omitempty"` // fallback for new files
    Folder       string   `json:"folder,omitempty"`        // subfolder created under either base
    Roots        []string `json:"roots,omitempty"`         // if set, only files under these are opened
    Extensions   []string `json:"extensions,omitempty"`    // file picker filter
    LineNumbers  bool     `json:"line_numbers,omitempty"`
    NoColor      bool     `json:"no_color,omitempty"`
    LogFile      string   `json:"log_file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
    return &Config{
        Style:        "auto",
        CloudDir:     fsx.DefaultCloudDir(),
        DocumentsDir: fsx.DefaultDocumentsDir(),
        Folder:       "mdpad",
        Extensions:   []string{".md", ".markdown", ".txt", ".text"},
    }
}

// DefaultPath is <user config dir>/mdpad/config.json.
func DefaultPath() string {
    dir, err := os.UserConfigDir()
    if err != nil {
        return filepath.Join(".", ".mdpad", "config.json")
    }
    return filepath.Join(dir, "mdpad", "config.json")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
    c := Default()
    data, err := os.ReadFile(path)
    if errors.Is(err, os.ErrNotExist) {
        return c, nil
    }
    if err != nil {
        return nil, fmt.Errorf("read config: %w", err)
    }
    if err := json.Unmarshal(data, c); err != nil {
        return nil, fmt.Errorf("parse config JSON: %w", err)
    }
    if c.Folder == "" {
        c.Folder = "mdpad"
    }
    return c, nil
}

// Save writes c to path, creating parent directories.
func Save(path string, c *Config) error {
    data, err := json.MarshalIndent(c, "", "  ")
    if err != nil {
        return err
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("create config dir: %w", err)
    }
    return os.WriteFile(path, append(data, '\n'), 0644)
}

// Dirs returns the new-file directory resolution for this config.
func (c *Config) Dirs() fsx.Dirs {
    return fsx.Dirs{Cloud: c.CloudDir, Documents: c.DocumentsDir, Folder: c.Folder}
}

// FS returns the file system collaborator restricted to Roots.
func (c *Config) FS() fsx.OS {
    return fsx.OS{Roots: append([]string(nil), c.Roots...)}
}
