// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (Docker, compose, filesystem, network, the certificate authority).
package out

import (
	"context"
	"io"
)

// ContainerRuntime defines the contract for talking to the container engine.
type ContainerRuntime interface {
	// Runtime information
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)

	// In-container operations
	ExecInContainer(ctx context.Context, containerID string, cmd []string) (*ExecResult, error)
	CopyFromContainer(ctx context.Context, containerID, srcPath string) (io.ReadCloser, error)
}

// ExecResult holds the result of executing a command in a container.
type ExecResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}
