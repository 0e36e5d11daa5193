package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"energia-cloud/internal/database"
)

//go:embed sql/*.sql
var files embed.FS

// Apply runs every embedded migration in name order. Migrations are idempotent.
func Apply(ctx context.Context, db database.DBTX) error {
	names, err := fs.Glob(files, "sql/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("migrations: %s: %w", name, err)
		}
	}
	return nil
}
