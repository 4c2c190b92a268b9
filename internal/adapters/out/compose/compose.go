// Package compose drives the compose CLI in the working directory.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultCandidates are tried in order by Detect.
var DefaultCandidates = [][]string{
	{"docker", "compose"},
	{"docker-compose"},
}

// Orchestrator implements out.Orchestrator by shelling out to compose.
type Orchestrator struct {
	command    []string
	candidates [][]string
	dir        string
	log        *log.Logger
}

// New creates an orchestrator running command (e.g. docker compose) in dir.
// An empty command is detected on first use.
func New(command []string, dir string, log *log.Logger) *Orchestrator {
	return &Orchestrator{
		command:    slices.Clone(command),
		candidates: DefaultCandidates,
		dir:        dir,
		log:        log,
	}
}

func (o *Orchestrator) resolve(ctx context.Context) ([]string, error) {
	if len(o.command) > 0 {
		return o.command, nil
	}
	command, err := Detect(ctx, o.candidates)
	if err != nil {
		return nil, err
	}
	o.log.Debug("compose command detected", "cmd", strings.Join(command, " "))
	o.command = command
	return command, nil
}

// Up builds the images and starts the services in the background.
func (o *Orchestrator) Up(ctx context.Context) error {
	command, err := o.resolve(ctx)
	if err != nil {
		return err
	}

	args := append(slices.Clone(command[1:]), "up", "-d", "--build")
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Dir = o.dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	o.log.Debug("running compose", "cmd", strings.Join(append([]string{command[0]}, args...), " "), "dir", o.dir)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s up failed: %w: %s", strings.Join(command, " "), err, lastLines(output.String(), 10))
	}

	o.log.Debug("compose finished", "output", lastLines(output.String(), 5))
	return nil
}

// Detect returns the first candidate whose "version" subcommand succeeds.
func Detect(ctx context.Context, candidates [][]string) ([]string, error) {
	for _, c := range candidates {
		if len(c) == 0 {
			continue
		}
		if _, err := exec.LookPath(c[0]); err != nil {
			continue
		}
		args := append(slices.Clone(c[1:]), "version")
		if err := exec.CommandContext(ctx, c[0], args...).Run(); err == nil {
			return slices.Clone(c), nil
		}
	}
	return nil, fmt.Errorf("no compose command found (tried %d candidates)", len(candidates))
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
