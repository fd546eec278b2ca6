package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	migrations := []Migration{
		{
			Name: "create_profiles_table",
			Up:   createProfilesTable,
		},
		{
			Name: "add_share_uuid_index",
			Up:   addShareUUIDIndex,
		},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration.
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func createProfilesTable(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS profiles (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			education JSONB NOT NULL DEFAULT '[]'::jsonb,
			experience JSONB NOT NULL DEFAULT '[]'::jsonb,
			skills JSONB NOT NULL DEFAULT '[]'::jsonb,
			certificates JSONB NOT NULL DEFAULT '[]'::jsonb,
			template TEXT NOT NULL DEFAULT 'modern',
			share_uuid TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		return err
	}
	return nil
}

func addShareUUIDIndex(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE INDEX IF NOT EXISTS idx_profiles_share_uuid ON profiles (share_uuid);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		// Log the error but don't fail - the index may already exist
		slog.Warn("Error adding share_uuid index (may already exist)", "error", err)
		return nil
	}
	return nil
}
