package out

import "io/fs"

// Workspace is the working directory the bootstrap reads templates from and
// writes generated files to. All names are relative to Root.
type Workspace interface {
	Root() string
	FS() fs.FS
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(name string) error
	Remove(name string) error
	RemoveAll(name string) error
	Exists(name string) bool
}
