package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/skincare-journal/internal/app"
	"github.com/vcscsvcscs/skincare-journal/internal/config"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Database maintenance for the skincare journal",
	Long: `seed prepares a skincare journal database.

It reads the same environment as the API server (DATABASE_DRIVER,
DATABASE_URL, SQLITE_PATH, ANALYZER_MOCK_SEED, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by the subcommands
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.Database.Driver == "sqlite" {
				store, err := app.OpenStore(cmd.Context(), cfg.Database, logger)
				if err != nil {
					return err
				}
				store.Close()
				return nil
			}
			return app.Migrate(cmd.Context(), cfg.Database, logger)
		},
	}
}
