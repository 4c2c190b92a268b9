// Package scaffold writes the built-in templates and Dockerfile into a
// working directory.
package scaffold

import (
	"context"
	"fmt"
	"io/fs"
	"path"

	"github.com/charmbracelet/log"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
)

// Service implements in.ScaffoldService.
type Service struct {
	ws           out.Workspace
	defaults     fs.FS
	templatesDir string
	log          *log.Logger
}

// NewService creates a scaffold service copying from defaults, an fs.FS
// laid out as Dockerfile plus templates/. Files under templates/ are written
// to templatesDir.
func NewService(ws out.Workspace, defaults fs.FS, templatesDir string, log *log.Logger) *Service {
	return &Service{
		ws:           ws,
		defaults:     defaults,
		templatesDir: templatesDir,
		log:          log,
	}
}

// Scaffold writes every default file that is missing, or all of them when
// force is set. It returns the files written.
func (s *Service) Scaffold(ctx context.Context, force bool) ([]string, error) {
	var written []string

	err := fs.WalkDir(s.defaults, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		target := s.targetPath(name)
		if s.ws.Exists(target) && !force {
			s.log.Debug("keeping existing file", "file", target)
			return nil
		}

		data, err := fs.ReadFile(s.defaults, name)
		if err != nil {
			return err
		}
		if err := s.ws.WriteFile(target, data, 0644); err != nil {
			return err
		}
		written = append(written, target)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("failed to scaffold workspace: %w", err)
	}

	s.log.Info("workspace scaffolded", "files", len(written), "root", s.ws.Root())
	return written, nil
}

func (s *Service) targetPath(name string) string {
	const prefix = "templates/"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return path.Join(s.templatesDir, name[len(prefix):])
	}
	return name
}
