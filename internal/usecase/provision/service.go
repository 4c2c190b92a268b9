// Package provision drives a bootstrap run: it writes the rendered
// artifacts, launches the proxy container, triggers certificate issuance
// inside it and, on success, moves the workspace to its steady state.
package provision

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
	"github.com/Sergey2677/nginx/internal/domain"
	"github.com/Sergey2677/nginx/internal/usecase/render"
)

// Options tunes a provisioning run.
type Options struct {
	SettleDelay       time.Duration
	IssuanceCommand   []string
	ProxyConfigPath   string // inside the container
	CertificateDir    string // inside the container
	MinRuntimeVersion string
	ACMEPreflight     bool
	SelfDestruct      bool
	Executable        string // bootstrap binary, removed on finalize when inside the workspace
}

// Service implements in.ProvisionService.
type Service struct {
	renderer     *render.Service
	ws           out.Workspace
	runtime      out.ContainerRuntime
	orchestrator out.Orchestrator
	authority    out.CertificateAuthority
	opts         Options
	sleep        func(context.Context, time.Duration) error
	log          *log.Logger
}

// NewService creates a provisioning service.
func NewService(
	renderer *render.Service,
	ws out.Workspace,
	runtime out.ContainerRuntime,
	orchestrator out.Orchestrator,
	authority out.CertificateAuthority,
	opts Options,
	log *log.Logger,
) *Service {
	return &Service{
		renderer:     renderer,
		ws:           ws,
		runtime:      runtime,
		orchestrator: orchestrator,
		authority:    authority,
		opts:         opts,
		sleep:        sleepContext,
		log:          log,
	}
}

// Run provisions the edge server for answers.
//
// A nonzero exit from the issuance command fails the run with
// domain.ErrIssuanceFailed and leaves every generated file in place.
func (s *Service) Run(ctx context.Context, answers domain.Answers) (result *domain.Result, err error) {
	run := domain.NewProvision()
	defer func() {
		if err != nil {
			run.Fail()
			s.log.Debug("provisioning stopped", "state", run.State())
		}
	}()

	plan, err := s.renderer.Prepare(ctx, answers)
	if err != nil {
		return nil, err
	}

	if err := s.Preflight(ctx, answers.Staging); err != nil {
		return nil, err
	}

	if _, err := s.writePreLaunch(plan); err != nil {
		return nil, err
	}

	name := answers.ContainerName
	s.log.Info("creating container", "container", name)
	if err := s.orchestrator.Up(ctx); err != nil {
		return nil, fmt.Errorf("failed to start container %s: %w", name, err)
	}

	if err := s.issue(ctx, name); err != nil {
		return nil, err
	}
	if err := run.Advance(domain.StateIssued); err != nil {
		return nil, err
	}

	if err := s.renderer.WriteSteady(plan); err != nil {
		return nil, err
	}
	appConfig, err := s.renderer.WriteVirtualHost(plan)
	if err != nil {
		return nil, err
	}

	s.log.Debug("waiting for the proxy to settle", "delay", s.opts.SettleDelay)
	if err := s.sleep(ctx, s.opts.SettleDelay); err != nil {
		return nil, err
	}

	primary := answers.Domains.Primary()
	proxyConfig := render.ProxyConfigPath(primary)
	if err := s.copyOut(ctx, name, s.opts.ProxyConfigPath, proxyConfig); err != nil {
		return nil, err
	}

	result = &domain.Result{
		PrimaryDomain:   primary,
		ProxyConfigPath: proxyConfig,
		AppConfigPath:   appConfig,
		Certificate:     s.inspectCertificate(ctx, name, primary),
	}

	if err := s.finalize(run); err != nil {
		return nil, err
	}

	s.log.Info("installation has finished", "domain", primary)
	return result, nil
}

// RenderOnly writes the pre-launch artifacts and the site directories
// without contacting the container runtime.
func (s *Service) RenderOnly(ctx context.Context, answers domain.Answers) ([]string, error) {
	plan, err := s.renderer.Prepare(ctx, answers)
	if err != nil {
		return nil, err
	}
	return s.writePreLaunch(plan)
}

func (s *Service) writePreLaunch(plan *render.Plan) ([]string, error) {
	written, err := s.renderer.WritePreLaunch(plan)
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{render.SitesAvailable, render.SitesEnabled} {
		if err := s.ws.MkdirAll(dir); err != nil {
			return nil, err
		}
		written = append(written, dir+"/")
	}
	return written, nil
}

func (s *Service) issue(ctx context.Context, container string) error {
	s.log.Info("obtaining TLS certificate", "container", container)

	res, err := s.runtime.ExecInContainer(ctx, container, s.opts.IssuanceCommand)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIssuanceFailed, err)
	}
	if res.ExitCode != 0 {
		s.log.Error("issuance command failed",
			"container", container,
			"exit_code", res.ExitCode,
			"stderr", string(res.Stderr),
		)
		return fmt.Errorf("%w: exit code %d", domain.ErrIssuanceFailed, res.ExitCode)
	}

	s.log.Debug("issuance command finished", "stdout", string(res.Stdout))
	return nil
}

func (s *Service) copyOut(ctx context.Context, container, src, dst string) error {
	data, err := s.readFromContainer(ctx, container, src)
	if err != nil {
		return err
	}
	if err := s.ws.WriteFile(dst, data, 0644); err != nil {
		return err
	}
	s.log.Info("proxy config copied", "from", src, "to", dst)
	return nil
}

func (s *Service) readFromContainer(ctx context.Context, container, src string) ([]byte, error) {
	rc, err := s.runtime.CopyFromContainer(ctx, container, src)
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s from %s: %w", src, container, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s from %s: %w", src, container, err)
	}
	return data, nil
}

// inspectCertificate reports the issued certificate. Failures are logged
// and ignored.
func (s *Service) inspectCertificate(ctx context.Context, container, primary string) *domain.CertificateInfo {
	if s.authority == nil || s.opts.CertificateDir == "" {
		return nil
	}

	src := path.Join(s.opts.CertificateDir, primary, "fullchain.pem")
	chain, err := s.readFromContainer(ctx, container, src)
	if err != nil {
		s.log.Warn("could not read issued certificate", "err", err)
		return nil
	}

	info, err := s.authority.Inspect(chain)
	if err != nil {
		s.log.Warn("could not parse issued certificate", "err", err)
		return nil
	}

	s.log.Info("certificate issued", "subject", info.Subject, "expires", info.NotAfter.Format(time.DateOnly))
	return info
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
