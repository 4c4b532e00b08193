package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

// Bootstrap brings the schema up to date at API boot. sqlite is always built
// from the models. Postgres runs the goose files only in dev with
// POTIONSHOP_AUTO_MIGRATE set; elsewhere cmd/migrate owns the schema.
func Bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	ctx = logg.WithFields(ctx, map[string]any{"db_driver": cfg.DB.Driver, "env": cfg.App.Env})

	switch {
	case cfg.DB.IsSQLite():
		if err := client.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("auto-migrating sqlite: %w", err)
		}
		logg.Info(ctx, "sqlite schema ready")
	case cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate:
		sqlDB, err := client.DB().DB()
		if err != nil {
			return fmt.Errorf("extracting sql.DB: %w", err)
		}
		runner, err := NewRunner(sqlDB, DefaultDir, nil)
		if err != nil {
			return err
		}
		if err := runner.Run(ctx, CommandUp); err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "dir", DefaultDir), "goose migrations applied")
	default:
		logg.Debug(ctx, "schema migrations left to cmd/migrate")
	}
	return nil
}
