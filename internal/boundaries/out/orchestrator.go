package out

import "context"

// Orchestrator builds and starts the services declared in the manifest
// found in the working directory.
type Orchestrator interface {
	Up(ctx context.Context) error
}
