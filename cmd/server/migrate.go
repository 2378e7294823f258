package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/late-show-api/internal/database"
)

func newMigrateCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create the episodes, guests and appearances tables",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cc.config()
			if err != nil {
				return err
			}
			log, err := cc.logger()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db, cfg.DB.Driver); err != nil {
				return err
			}
			log.Info("schema applied", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}

func newSeedCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "seed",
		Short:        "Replace all data with the sample episodes, guests and appearances",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cc.config()
			if err != nil {
				return err
			}
			log, err := cc.logger()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
				return err
			}
			res, err := database.Seed(ctx, db)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("database seeded",
				zap.Int("episodes", len(res.EpisodeIDs)),
				zap.Int("guests", len(res.GuestIDs)),
				zap.Int("appearances", len(res.AppearanceIDs)))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d episodes, %d guests, %d appearances\n",
				len(res.EpisodeIDs), len(res.GuestIDs), len(res.AppearanceIDs))
			return nil
		},
	}
}
