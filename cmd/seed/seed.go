package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/skincare-journal/internal/analysis"
	"github.com/vcscsvcscs/skincare-journal/internal/app"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

var starterRoutine = []model.Product{
	{Name: "Gentle Foaming Cleanser", Brand: "CeraVe", Category: model.CategoryCleanser},
	{Name: "Niacinamide 10% + Zinc 1%", Brand: "The Ordinary", Category: model.CategorySerum},
	{Name: "Daily Moisturizing Lotion", Brand: "Cetaphil", Category: model.CategoryMoisturizer},
	{Name: "UV Clear SPF 46", Brand: "EltaMD", Category: model.CategorySunscreen},
}

func seedCmd() *cobra.Command {
	var (
		userID   string
		days     int
		products bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a user's journal with demo data",
		Long: `Creates one journal entry per day for the last --days days using the
seeded mock analyzer, so the same ANALYZER_MOCK_SEED always produces the
same journal. With --products a starter routine is added as well.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			if days < 1 {
				return fmt.Errorf("--days must be positive")
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			store, err := app.OpenStore(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			photos, reports, err := app.NewBlobStores(cfg, logger)
			if err != nil {
				return err
			}
			analyzer := analysis.NewMockAnalyzer(cfg.Analyzer.MockSeed)
			services, err := app.NewServices(cfg, store, photos, reports, analyzer, logger)
			if err != nil {
				return err
			}

			n, err := seedJournal(ctx, services, analyzer, userID, days, time.Now())
			if err != nil {
				return err
			}
			if products {
				if err := seedProducts(ctx, services, userID, time.Now().AddDate(0, 0, -days)); err != nil {
					return err
				}
			}

			logger.Info("demo data seeded",
				zap.String("user_id", userID),
				zap.Int("skin_logs", n),
				zap.Bool("products", products),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d journal entries for %s\n", n, userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to seed")
	cmd.Flags().IntVar(&days, "days", 30, "number of days of history")
	cmd.Flags().BoolVar(&products, "products", true, "add a starter product routine")

	return cmd
}

// seedJournal writes one analyzed entry per day ending today, oldest first
func seedJournal(ctx context.Context, services *app.Services, analyzer analysis.Analyzer, userID string, days int, now time.Time) (int, error) {
	for i := days - 1; i >= 0; i-- {
		result, err := analyzer.Analyze(ctx, userID, nil)
		if err != nil {
			return days - 1 - i, fmt.Errorf("failed to analyze day %d: %w", i, err)
		}

		log := &model.SkinLog{
			Date:      now.AddDate(0, 0, -i),
			Condition: model.ConditionFromScore(result.SkinScore),
			Concerns:  result.ConcernLabels(),
			SkinScore: result.SkinScore,
			Analysis:  result,
		}
		if err := services.SkinLogs.AddLog(ctx, userID, log); err != nil {
			return days - 1 - i, fmt.Errorf("failed to add log for day %d: %w", i, err)
		}
	}
	return days, nil
}

func seedProducts(ctx context.Context, services *app.Services, userID string, start time.Time) error {
	for _, p := range starterRoutine {
		product := p
		product.StartDate = start
		if err := services.Products.AddProduct(ctx, userID, &product); err != nil {
			return fmt.Errorf("failed to add product %s: %w", p.Name, err)
		}
	}
	return nil
}
