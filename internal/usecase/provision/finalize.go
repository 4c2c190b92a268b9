package provision

import (
	"path/filepath"
	"strings"

	"github.com/Sergey2677/nginx/internal/domain"
	"github.com/Sergey2677/nginx/internal/usecase/render"
)

// finalize removes the bootstrap-only files. It runs once per run and only
// from the issued state.
func (s *Service) finalize(run *domain.Provision) error {
	if err := run.Advance(domain.StateFinalized); err != nil {
		return err
	}

	s.log.Info("collecting unused files")
	for _, name := range []string{render.EnvPath, render.ScriptPath} {
		if err := s.ws.Remove(name); err != nil {
			return err
		}
	}
	if err := s.ws.RemoveAll(s.renderer.TemplatesDir()); err != nil {
		return err
	}

	if s.opts.SelfDestruct {
		s.removeExecutable()
	}
	return nil
}

func (s *Service) removeExecutable() {
	if s.opts.Executable == "" {
		return
	}

	rel, err := filepath.Rel(s.ws.Root(), s.opts.Executable)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		s.log.Info("bootstrap binary lives outside the workspace, keeping it", "path", s.opts.Executable)
		return
	}

	if err := s.ws.Remove(rel); err != nil {
		s.log.Warn("could not remove bootstrap binary", "path", s.opts.Executable, "err", err)
		return
	}
	s.log.Info("bootstrap binary removed", "path", rel)
}
