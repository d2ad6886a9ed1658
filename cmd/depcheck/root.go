package main

import (
	"github.com/fbkclanna/depcheck/internal/config"
	"github.com/fbkclanna/depcheck/internal/workspace"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "depcheck",
		Short:        "Dependency consistency checker for Cargo workspaces",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("root", ".", "Workspace root directory")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newCheckCmd(),
		newListCmd(),
		newDoctorCmd(),
		newWatchCmd(),
		newShowCmd(),
	)

	return cmd
}

// newLogger returns a stderr logger honouring --verbose.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")

	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// loadWorkspace reads the configuration and every manifest under --root.
// adjust, when non-nil, may override configuration values from flags.
func loadWorkspace(cmd *cobra.Command, log *logrus.Logger, adjust func(*config.Config) error) (*workspace.Context, error) {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		if err := adjust(cfg); err != nil {
			return nil, err
		}
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return workspace.Load(root, cfg, log)
}
