// Package cli holds the diabetes command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/diabetes-app/internal/config"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// NewRootCommand builds the command tree. Running it without a subcommand serves.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "diabetes",
		Short:         "Diabetes risk assessment form and API",
		Long:          "Serves a patient form that predicts diabetes from six answers and shows the decision path that led there.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "Path to a YAML or JSON config file (overrides DA_CONFIG_PATH)")
	root.PersistentFlags().String("log", "", "Log mode for one-shot commands (development, production, nop)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newPredictCmd())
	root.AddCommand(newRenderPathsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// toolLogger is quiet unless --log asks otherwise.
func toolLogger(cmd *cobra.Command) (*logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log")
	if mode == "" {
		mode = "nop"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "diabetes", version)
		},
	}
}
