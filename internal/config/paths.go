package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories the application writes to.
// Relative entries of PathsConfig are anchored at the executable directory.
type Paths struct {
	ExecutableDir string
	LogsDir       string
	ExportsDir    string
}

// GetPaths resolves the configured directories
func (c *Config) GetPaths() *Paths {
	return &Paths{
		ExecutableDir: c.Paths.ExecutableDir,
		LogsDir:       c.resolve(c.Paths.LogsDir),
		ExportsDir:    c.resolve(c.Paths.ExportsDir),
	}
}

func (c *Config) resolve(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Paths.ExecutableDir, dir)
}

// EnsureDirectories creates every directory if it does not exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir, p.ExportsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// ExportPath returns the location of a named export file
func (p *Paths) ExportPath(name string) string {
	return filepath.Join(p.ExportsDir, name)
}

// executableDir returns the directory of the running binary with symlinks resolved
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}
