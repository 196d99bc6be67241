package migration

import (
	"context"
	_ "embed"
	"fmt"

	"travel-booking/pkg/database"

	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Every statement is idempotent, so running it
// against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db database.PgxIface, log *zap.Logger) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		log.Error("Failed to apply schema", zap.Error(err))
		return fmt.Errorf("apply schema: %w", err)
	}

	log.Info("Schema applied")
	return nil
}
