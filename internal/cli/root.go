// Package cli holds the simmeta cobra commands.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/simmeta/internal/appconfig"
	"github.com/zeusync/simmeta/internal/core/observability/log"
	"github.com/zeusync/simmeta/internal/injector"
)

type rootOptions struct {
	configPath string
	dataset    string
	logLevel   string
	logFormat  string

	cfg *appconfig.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "simmeta",
		Short: "Simulation metadata template registry",
		Long: `simmeta loads simulation metadata templates (objects, stages, primitives,
lighting, PBR shading, physics and scene instances) from a dataset directory,
reports schema diagnostics and serves the registry over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.loadConfig(cmd)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (.yaml or .toml), default ./"+appconfig.DefaultFileName+" if present")
	flags.StringVarP(&opts.dataset, "dataset", "d", "", "Dataset directory, overrides the config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, silent")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log encoding: console or json")

	cmd.AddCommand(
		newLoadCommand(opts),
		newInspectCommand(opts),
		newServeCommand(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) error {
	cfg := appconfig.Default()
	path := o.configPath
	if path == "" {
		if _, err := os.Stat(appconfig.DefaultFileName); err == nil {
			path = appconfig.DefaultFileName
		}
	}
	if path != "" {
		loaded, err := appconfig.Load(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && o.configPath == "" {
				loaded = cfg
			} else {
				return &ExitError{Code: ExitConfigError, Cause: err}
			}
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("dataset") {
		cfg.Dataset = o.dataset
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitConfigError, Cause: err}
	}
	o.cfg = cfg
	return nil
}

// app wires the components for the loaded configuration.
func (o *rootOptions) app() *injector.App {
	app := injector.InitializeApp(o.cfg)
	app.Logger.Debug("configuration loaded",
		log.String("dataset", o.cfg.Dataset),
		log.String("log_level", o.cfg.LogLevel))
	return app
}
