// Package docker implements the container runtime adapter using Docker API.
package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
)

// maxCopySize bounds a single file copied out of a container.
const maxCopySize = 8 << 20

// engineAPI is the subset of the Docker client the runtime uses.
type engineAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ServerVersion(ctx context.Context) (types.Version, error)
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	CopyFromContainer(ctx context.Context, containerID, srcPath string) (io.ReadCloser, container.PathStat, error)
}

// Runtime implements the out.ContainerRuntime interface using Docker API.
type Runtime struct {
	client engineAPI
	log    *log.Logger
}

// NewRuntime creates a new Docker runtime from the environment
// (DOCKER_HOST and friends).
func NewRuntime(log *log.Logger) (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Runtime{
		client: cli,
		log:    log,
	}, nil
}

// Ping checks if Docker is responsive.
func (r *Runtime) Ping(ctx context.Context) error {
	if _, err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("Docker ping failed: %w", err)
	}
	return nil
}

// Version returns the Docker Engine version.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	version, err := r.client.ServerVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get Docker version: %w", err)
	}
	return version.Version, nil
}

// ExecInContainer runs cmd inside the container, waits for it to exit and
// returns its output and exit code.
func (r *Runtime) ExecInContainer(ctx context.Context, containerID string, cmd []string) (*out.ExecResult, error) {
	if len(cmd) == 0 {
		return nil, fmt.Errorf("exec command cannot be empty")
	}

	r.log.Debug("exec in container", "container", containerID, "cmd", cmd)

	created, err := r.client.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exec in %s: %w", containerID, err)
	}

	attach, err := r.client.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to attach to exec in %s: %w", containerID, err)
	}
	defer attach.Close()

	stdout, stderr, err := parseExecOutput(attach.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read exec output: %w", err)
	}

	inspect, err := r.client.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect exec in %s: %w", containerID, err)
	}

	return &out.ExecResult{
		ExitCode: inspect.ExitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

func parseExecOutput(r io.Reader) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, r); err != nil {
		return nil, nil, err
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// CopyFromContainer returns the content of a single file inside the
// container. A symlink is followed once.
func (r *Runtime) CopyFromContainer(ctx context.Context, containerID, srcPath string) (io.ReadCloser, error) {
	archive, stat, err := r.client.CopyFromContainer(ctx, containerID, srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s from %s: %w", srcPath, containerID, err)
	}

	if stat.Mode&os.ModeSymlink != 0 && stat.LinkTarget != "" {
		archive.Close()
		target := stat.LinkTarget
		if !path.IsAbs(target) {
			target = path.Join(path.Dir(srcPath), target)
		}
		r.log.Debug("following symlink", "path", srcPath, "target", target)

		archive, _, err = r.client.CopyFromContainer(ctx, containerID, target)
		if err != nil {
			return nil, fmt.Errorf("failed to copy %s from %s: %w", target, containerID, err)
		}
	}
	defer archive.Close()

	data, err := readSingleFile(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", srcPath, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// readSingleFile returns the first regular file of a tar stream.
func readSingleFile(r io.Reader) ([]byte, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("archive contains no regular file")
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if hdr.Size > maxCopySize {
			return nil, fmt.Errorf("%s is too large (%d bytes)", hdr.Name, hdr.Size)
		}
		return io.ReadAll(tr)
	}
}
