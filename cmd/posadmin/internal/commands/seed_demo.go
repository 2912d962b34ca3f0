package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"

	"github.com/smileworld/ktvpos/internal/catalog"
	"github.com/smileworld/ktvpos/internal/rooms"
)

// SeedDemo applies the demo catalog and room seeds. Already applied seeds are
// skipped by the tracker, so the command is safe to re-run.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo seeding...")

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	tracker := seed.NewMongoTracker(db)

	seeds := catalog.Seeds(db)
	seeds = append(seeds, rooms.Seeds(db)...)

	if err := seed.Apply(ctx, tracker, seeds, "pos"); err != nil {
		return fmt.Errorf("apply seeds: %w", err)
	}
	return nil
}
