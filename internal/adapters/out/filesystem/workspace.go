package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Sergey2677/nginx/pkg/validation"
)

// Workspace implements out.Workspace on a local directory.
type Workspace struct {
	rootDir string
	log     *log.Logger
}

// NewWorkspace opens the working directory. The directory must exist.
func NewWorkspace(rootDir string, log *log.Logger) (*Workspace, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open working directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("working directory %s is not a directory", abs)
	}

	log.Debug("workspace opened", "root", abs)

	return &Workspace{
		rootDir: abs,
		log:     log,
	}, nil
}

// Root returns the absolute working directory.
func (w *Workspace) Root() string {
	return w.rootDir
}

// FS returns a read-only view of the working directory.
func (w *Workspace) FS() fs.FS {
	return os.DirFS(w.rootDir)
}

// ReadFile reads a file relative to the working directory.
func (w *Workspace) ReadFile(name string) ([]byte, error) {
	path, err := w.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// WriteFile writes a file, creating parent directories as needed.
func (w *Workspace) WriteFile(name string, data []byte, perm fs.FileMode) error {
	path, err := w.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}

	w.log.Debug("file written", "file", name, "bytes", len(data))
	return nil
}

// MkdirAll creates a directory. An existing directory is not an error.
func (w *Workspace) MkdirAll(name string) error {
	path, err := w.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", name, err)
	}
	return nil
}

// Remove deletes a single file.
func (w *Workspace) Remove(name string) error {
	path, err := w.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}

	w.log.Debug("file removed", "file", name)
	return nil
}

// RemoveAll deletes a directory tree.
func (w *Workspace) RemoveAll(name string) error {
	path, err := w.path(name)
	if err != nil {
		return err
	}
	if path == w.rootDir {
		return fmt.Errorf("refusing to remove the working directory")
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}

	w.log.Debug("directory removed", "dir", name)
	return nil
}

// Exists reports whether name exists in the working directory.
func (w *Workspace) Exists(name string) bool {
	path, err := w.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (w *Workspace) path(name string) (string, error) {
	clean, err := validation.ValidatePath(name)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", name, err)
	}

	full := filepath.Join(w.rootDir, clean)
	if err := validation.ValidatePathWithinRoot(w.rootDir, full); err != nil {
		return "", fmt.Errorf("invalid path %q: %w", name, err)
	}
	return full, nil
}
