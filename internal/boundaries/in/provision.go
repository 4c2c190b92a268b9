// Package in defines input ports (interfaces) for use cases.
// These interfaces define the contract between driving adapters (the CLI)
// and the provisioning logic.
package in

import (
	"context"

	"github.com/Sergey2677/nginx/internal/domain"
)

// InputCollector gathers and validates operator answers.
type InputCollector interface {
	// Collect asks every question in order: container name, domains, port,
	// email, staging flag.
	Collect(ctx context.Context) (domain.Answers, error)
}

// ProvisionService drives a bootstrap run.
type ProvisionService interface {
	// Run renders the bootstrap artifacts, launches the container, issues the
	// certificate and finalizes the workspace.
	Run(ctx context.Context, answers domain.Answers) (*domain.Result, error)

	// RenderOnly writes the pre-launch artifacts without touching the
	// container runtime.
	RenderOnly(ctx context.Context, answers domain.Answers) ([]string, error)
}

// ScaffoldService writes the default templates into the working directory.
type ScaffoldService interface {
	Scaffold(ctx context.Context, force bool) ([]string, error)
}
