// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hotspot-cli/internal/config"
	"github.com/xkilldash9x/hotspot-cli/internal/observability"
)

var cfgFile string

// NewRootCommand builds a fresh root command with all subcommands
// attached. A new instance per execution keeps flag state from leaking
// between runs.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hotspot-cli",
		Short:         "Fetches security hotspots from a SonarQube server and renders a summary report.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Runs before any command: config sources first, then the logger.
			if err := initializeConfig(); err != nil {
				return err
			}

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				// Fall back to a default logger so the failure is visible.
				observability.InitializeLogger(config.NewDefaultConfig().Logger)
				return err
			}
			observability.InitializeLogger(cfg.Logger)

			observability.GetLogger().Debug("Starting hotspot-cli", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with the given signal-aware context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		return err
	}
	return nil
}

// initializeConfig reads in the config file and ENV variables if set.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HOTSPOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults, env vars and flags carry the run.
	}
	return nil
}
