// File: cmd/report.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hotspot-cli/internal/aggregate"
	"github.com/xkilldash9x/hotspot-cli/internal/config"
	"github.com/xkilldash9x/hotspot-cli/internal/observability"
	"github.com/xkilldash9x/hotspot-cli/internal/reporting"
	"github.com/xkilldash9x/hotspot-cli/internal/sonar"
)

// newReportCmd creates and configures the `report` command.
func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch all security hotspots for a project and write a summary report",
		Long: `Pages through the server's hotspot search endpoint until it reports no
more results, aggregates the findings into per-severity, per-status and
per-category counts, and writes a detailed record list plus a summary
workbook (or JSON document). The run either completes with a full report
or fails with no artifact produced.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so the command line
			// overrides config file and environment values.
			for flag, key := range map[string]string{
				"project":   "sonar.project",
				"sonar-url": "sonar.url",
				"page-size": "sonar.page_size",
				"output":    "report.output",
				"format":    "report.format",
			} {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-resolve the config now that the flags are bound.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.Sonar.Project == "" {
				return fmt.Errorf("a project key is required (--project or sonar.project)")
			}

			return runReport(ctx, logger, cfg)
		},
	}

	reportCmd.Flags().String("project", "", "Project key to fetch hotspots for (required)")
	reportCmd.Flags().String("sonar-url", "", "SonarQube server base URL")
	reportCmd.Flags().Int("page-size", 0, "Page size for hotspot search requests")
	reportCmd.Flags().StringP("output", "o", "", "Output file path")
	reportCmd.Flags().StringP("format", "f", "", "Report format ('xlsx' or 'json')")

	return reportCmd
}

// runReport contains the core, testable pipeline: fetch every page,
// aggregate once, hand the outputs to the report writer.
func runReport(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	logger.Info("Starting hotspot report",
		zap.String("project", cfg.Sonar.Project),
		zap.String("server", cfg.Sonar.URL),
		zap.String("output", cfg.Report.Output),
		zap.String("format", cfg.Report.Format),
	)

	client, err := sonar.NewClient(sonar.ClientConfig{
		BaseURL:         cfg.Sonar.URL,
		Token:           cfg.Sonar.Token,
		RequestTimeout:  cfg.Sonar.Timeout,
		IgnoreTLSErrors: cfg.Sonar.IgnoreTLSErrors,
		RateLimit:       cfg.Sonar.RateLimit,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize search client: %w", err)
	}

	fetcher := sonar.NewFetcher(client, cfg.Sonar.Project, cfg.Sonar.PageSize, logger)
	resultSet, err := fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch hotspots: %w", err)
	}

	summary, err := aggregate.NewAggregator(logger).Process(resultSet)
	if err != nil {
		return fmt.Errorf("failed to aggregate hotspots: %w", err)
	}

	reporter, err := reporting.New(cfg.Report.Format, cfg.Report.Output)
	if err != nil {
		return fmt.Errorf("failed to initialize reporter: %w", err)
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			logger.Warn("Failed to close reporter cleanly.", zap.Error(err))
		}
	}()

	if err := reporter.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info("Report successfully written",
		zap.String("path", cfg.Report.Output),
		zap.Int("records", len(summary.Records)),
	)
	return nil
}
