// Package render turns the workspace templates into the files a bootstrap
// run writes: the environment file, both manifest states, the issuance
// script and the reverse-proxy virtual host.
package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/charmbracelet/log"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
	"github.com/Sergey2677/nginx/internal/domain"
	"github.com/Sergey2677/nginx/internal/templates"
)

// Plan holds every artifact rendered for one set of answers.
type Plan struct {
	Answers     domain.Answers
	Env         []byte
	Manifests   domain.Manifests
	Script      []byte
	VirtualHost []byte
}

// Service renders templates read from the workspace.
type Service struct {
	ws           out.Workspace
	templatesDir string
	log          *log.Logger
}

// NewService creates a render service reading templates from templatesDir
// inside the workspace.
func NewService(ws out.Workspace, templatesDir string, log *log.Logger) *Service {
	return &Service{
		ws:           ws,
		templatesDir: templatesDir,
		log:          log,
	}
}

// TemplatesDir returns the template directory relative to the workspace.
func (s *Service) TemplatesDir() string {
	return s.templatesDir
}

// Prepare reads every template and renders all artifacts in memory.
// Nothing is written.
func (s *Service) Prepare(ctx context.Context, answers domain.Answers) (*Plan, error) {
	if err := answers.Validate(); err != nil {
		return nil, err
	}

	envTpl, err := s.readTemplate(templates.EnvTemplate)
	if err != nil {
		return nil, err
	}
	manifestTpl, err := s.readTemplate(templates.ManifestTemplate)
	if err != nil {
		return nil, err
	}
	scriptTpl, err := s.readTemplate(templates.IssuanceTemplate)
	if err != nil {
		return nil, err
	}
	vhostTpl, err := s.readTemplate(templates.VirtualHostTemplate)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env, err := RenderEnv(envTpl, answers.Domains, answers.Port)
	if err != nil {
		return nil, err
	}

	manifests, err := RenderManifests(manifestTpl, answers)
	if err != nil {
		return nil, err
	}

	s.log.Debug("templates rendered", "domain", answers.Domains.Primary(), "container", answers.ContainerName)

	return &Plan{
		Answers:     answers,
		Env:         env,
		Manifests:   manifests,
		Script:      RenderIssuanceScript(scriptTpl, answers),
		VirtualHost: RenderVirtualHost(vhostTpl, answers.Domains),
	}, nil
}

// WritePreLaunch writes the environment file, the bootstrap manifest and the
// issuance script.
func (s *Service) WritePreLaunch(plan *Plan) ([]string, error) {
	files := []struct {
		name  string
		data  []byte
		perm  fs.FileMode
		label string
	}{
		{EnvPath, plan.Env, 0644, "env file"},
		{ManifestPath, plan.Manifests.Bootstrap.Content, 0644, "docker-compose configuration"},
		{ScriptPath, plan.Script, 0755, "issuance script"},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		s.log.Info("preparing " + f.label)
		if err := s.ws.WriteFile(f.name, f.data, f.perm); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.label, err)
		}
		written = append(written, f.name)
	}
	return written, nil
}

// WriteSteady replaces the manifest with its steady-state form.
func (s *Service) WriteSteady(plan *Plan) error {
	if err := s.ws.WriteFile(ManifestPath, plan.Manifests.Steady.Content, 0644); err != nil {
		return fmt.Errorf("failed to write steady-state manifest: %w", err)
	}
	s.log.Info("manifest moved to steady state", "file", ManifestPath)
	return nil
}

// WriteVirtualHost writes the reverse-proxy config for the primary domain.
func (s *Service) WriteVirtualHost(plan *Plan) (string, error) {
	name := AppConfigPath(plan.Answers.Domains.Primary())
	if err := s.ws.WriteFile(name, plan.VirtualHost, 0644); err != nil {
		return "", fmt.Errorf("failed to write virtual host: %w", err)
	}
	s.log.Info("virtual host written", "file", name)
	return name, nil
}

func (s *Service) readTemplate(name string) ([]byte, error) {
	full := path.Join(s.templatesDir, name)
	data, err := s.ws.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, full)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
