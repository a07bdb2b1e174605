package cmd

import (
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const flagHome = "home"

// NewRootCmd creates the coinflipd command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coinflipd",
		Short:         "coinflipd runs a commit-reveal coin flip ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(flagHome, defaultHome(), "directory for config, genesis and data")

	rootCmd.AddCommand(
		initCmd(),
		startCmd(),
		genesisCmd(),
		exportCmd(),
	)
	return rootCmd
}

func defaultHome() string {
	if home := os.Getenv(envPrefix + "_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".coinflipd"
	}
	return filepath.Join(userHome, ".coinflipd")
}

func homeDir(cmd *cobra.Command) string {
	home, _ := cmd.Flags().GetString(flagHome)
	return home
}

// newLogger builds the node logger and points the global zerolog logger used
// by the HTTP servers at the same output.
func newLogger(cfg LogConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	opts := []log.Option{log.LevelOption(level)}
	if cfg.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
		zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return log.NewLogger(os.Stdout, opts...), nil
}
