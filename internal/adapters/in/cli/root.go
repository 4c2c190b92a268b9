// Package cli implements the CLI adapter for init-server.
// This package provides Cobra commands that delegate to the app layer.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Sergey2677/nginx/internal/app"
	"github.com/Sergey2677/nginx/internal/boundaries/out"
	"github.com/Sergey2677/nginx/internal/config"
	"github.com/Sergey2677/nginx/internal/logging"
	"github.com/Sergey2677/nginx/pkg/version"
)

type rootFlags struct {
	configPath   string
	envFile      string
	workDir      string
	templatesDir string
	logLevel     string
	maxAttempts  int
	settleDelay  time.Duration
	compose      string
	keepBinary   bool
	skipProbe    bool
}

// NewRootCmd creates the root command. Running it without a subcommand
// provisions the edge server interactively.
func NewRootCmd() *cobra.Command {
	return newRootCmd(NewSurveyPrompter())
}

func newRootCmd(prompter out.Prompter) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "init-server",
		Short: "Bootstrap an nginx reverse proxy with a Let's Encrypt certificate",
		Long: `init-server asks for a container name, domains, port and contact email,
renders the compose project from the templates in the working directory,
starts the nginx container and obtains a TLS certificate inside it.

On success the compose file is switched to its steady state and the
bootstrap files are removed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, log, err := flags.kernel(cmd, prompter)
			if err != nil {
				return err
			}
			if err := k.CheckTemplates(); err != nil {
				return err
			}

			log.Info("running...", "workdir", k.Root())

			answers, err := k.Collector().Collect(cmd.Context())
			if err != nil {
				return err
			}

			result, err := k.Provisioner().Run(cmd.Context(), answers)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config file (default <workdir>/"+config.DefaultFileName+")")
	pf.StringVar(&flags.envFile, "env-file", "", "Load INIT_SERVER_* variables from this file")
	pf.StringVarP(&flags.workDir, "workdir", "w", "", "Working directory holding the templates")
	pf.StringVar(&flags.templatesDir, "templates-dir", "", "Templates directory relative to the working directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.IntVar(&flags.maxAttempts, "max-attempts", 0, "Attempts allowed per question")
	pf.DurationVar(&flags.settleDelay, "settle-delay", 0, "Wait after issuance before copying the proxy config")
	pf.StringVar(&flags.compose, "compose-command", "", `Compose command, e.g. "docker compose"`)
	pf.BoolVar(&flags.keepBinary, "keep-binary", false, "Do not delete the bootstrap binary on success")
	pf.BoolVar(&flags.skipProbe, "skip-acme-probe", false, "Skip the certificate authority reachability check")

	rootCmd.AddCommand(newRenderCmd(flags, prompter))
	rootCmd.AddCommand(newScaffoldCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newRenderCmd creates the render command.
func newRenderCmd(flags *rootFlags, prompter out.Prompter) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Ask the questions and render the bootstrap files without starting anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, _, err := flags.kernel(cmd, prompter)
			if err != nil {
				return err
			}
			if err := k.CheckTemplates(); err != nil {
				return err
			}

			answers, err := k.Collector().Collect(cmd.Context())
			if err != nil {
				return err
			}

			files, err := k.Provisioner().RenderOnly(cmd.Context(), answers)
			if err != nil {
				return err
			}
			return printRendered(cmd.OutOrStdout(), k.Root(), files)
		},
	}
}

// newScaffoldCmd creates the scaffold command.
func newScaffoldCmd(flags *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Write the default templates and Dockerfile into the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, _, err := flags.kernel(cmd, nil)
			if err != nil {
				return err
			}

			files, err := k.Scaffolder().Scaffold(cmd.Context(), force)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return cliWriteLine(cmd.OutOrStdout(), cliRenderMuted("Nothing to do, every file already exists."))
			}
			return printRendered(cmd.OutOrStdout(), k.Root(), files)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return cmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	}
}

// load reads the configuration and applies the flags the operator set.
func (f *rootFlags) load(cmd *cobra.Command) (*config.Config, error) {
	path, explicit := f.configPath, f.configPath != ""
	if !explicit {
		dir := f.workDir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, config.DefaultFileName)
	}

	cfg, err := config.Load(path, explicit, f.envFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("workdir") {
		cfg.WorkDir = f.workDir
	}
	if changed("templates-dir") {
		cfg.TemplatesDir = f.templatesDir
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("max-attempts") {
		cfg.MaxAttempts = f.maxAttempts
	}
	if changed("settle-delay") {
		cfg.SettleDelay = f.settleDelay
	}
	if changed("compose-command") {
		cfg.Compose.Command = strings.Fields(f.compose)
	}
	if changed("keep-binary") {
		cfg.SelfDestruct = !f.keepBinary
	}
	if changed("skip-acme-probe") {
		cfg.ACME.Preflight = !f.skipProbe
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *rootFlags) kernel(cmd *cobra.Command, prompter out.Prompter) (*app.Kernel, *log.Logger, error) {
	cfg, err := f.load(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(cfg.LogLevel, cmd.ErrOrStderr())

	k, err := app.NewKernel(cfg, prompter, logger)
	if err != nil {
		return nil, nil, err
	}
	return k, logger, nil
}
