// Package app provides the application initialization and wiring.
package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	// Adapters - Output
	"github.com/Sergey2677/nginx/internal/adapters/out/acme"
	"github.com/Sergey2677/nginx/internal/adapters/out/compose"
	"github.com/Sergey2677/nginx/internal/adapters/out/docker"
	"github.com/Sergey2677/nginx/internal/adapters/out/filesystem"
	"github.com/Sergey2677/nginx/internal/adapters/out/publicip"

	// Boundaries
	"github.com/Sergey2677/nginx/internal/boundaries/in"
	"github.com/Sergey2677/nginx/internal/boundaries/out"

	"github.com/Sergey2677/nginx/internal/config"
	"github.com/Sergey2677/nginx/internal/templates"

	// Use cases
	"github.com/Sergey2677/nginx/internal/usecase/collect"
	"github.com/Sergey2677/nginx/internal/usecase/provision"
	"github.com/Sergey2677/nginx/internal/usecase/render"
	"github.com/Sergey2677/nginx/internal/usecase/scaffold"
)

// Kernel holds the wired services for one CLI invocation.
type Kernel struct {
	cfg         *config.Config
	workspace   *filesystem.Workspace
	collector   in.InputCollector
	provisioner in.ProvisionService
	scaffolder  in.ScaffoldService
}

// NewKernel wires every adapter and use case from cfg. Nothing touches the
// network or the container engine until a service is used.
func NewKernel(cfg *config.Config, prompter out.Prompter, log *log.Logger) (*Kernel, error) {
	ws, err := filesystem.NewWorkspace(cfg.WorkDir, log)
	if err != nil {
		return nil, err
	}

	runtime, err := docker.NewRuntime(log)
	if err != nil {
		return nil, err
	}

	resolver := publicip.New(cfg.PublicIP.URL, cfg.PublicIP.Resolver, cfg.PublicIP.Timeout, log)
	authority := acme.New(cfg.PublicIP.Timeout, log)
	orchestrator := compose.New(cfg.Compose.Command, ws.Root(), log)
	renderer := render.NewService(ws, cfg.TemplatesDir, log)

	opts := provision.Options{
		SettleDelay:       cfg.SettleDelay,
		IssuanceCommand:   cfg.Issuance.Command,
		ProxyConfigPath:   cfg.Issuance.ProxyConfigPath,
		CertificateDir:    cfg.Issuance.CertificateDir,
		MinRuntimeVersion: cfg.Docker.MinVersion,
		ACMEPreflight:     cfg.ACME.Preflight,
		SelfDestruct:      cfg.SelfDestruct,
	}
	if cfg.SelfDestruct {
		exe, err := os.Executable()
		if err != nil {
			log.Warn("cannot locate bootstrap binary, it will be kept", "err", err)
		} else {
			opts.Executable = exe
		}
	}

	return &Kernel{
		cfg:         cfg,
		workspace:   ws,
		collector:   collect.NewService(prompter, resolver, cfg.MaxAttempts, log),
		provisioner: provision.NewService(renderer, ws, runtime, orchestrator, authority, opts, log),
		scaffolder:  scaffold.NewService(ws, templates.Defaults(), cfg.TemplatesDir, log),
	}, nil
}

// Collector returns the operator input collector.
func (k *Kernel) Collector() in.InputCollector { return k.collector }

// Provisioner returns the provisioning service.
func (k *Kernel) Provisioner() in.ProvisionService { return k.provisioner }

// Scaffolder returns the workspace scaffolding service.
func (k *Kernel) Scaffolder() in.ScaffoldService { return k.scaffolder }

// Root returns the absolute working directory.
func (k *Kernel) Root() string { return k.workspace.Root() }

// CheckTemplates reports the required templates missing from the workspace.
func (k *Kernel) CheckTemplates() error {
	var missing []string
	for _, name := range templates.Required(k.cfg.TemplatesDir) {
		if !k.workspace.Exists(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing templates in %s: %v (run the scaffold command first)", k.workspace.Root(), missing)
	}
	return nil
}
