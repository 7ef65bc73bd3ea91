package postgres

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// Tables created by ApplySchema
var schemaTables = []string{"users", "authorization_denials"}

// ApplySchema creates the users and authorization_denials tables if they do
// not exist. It is idempotent.
func ApplySchema(ctx context.Context, db Querier) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return errFailedApplySchema(err)
	}
	return nil
}

// MissingTables returns the schema tables not present in the public schema.
func MissingTables(ctx context.Context, db Querier) ([]string, error) {
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`

	var missing []string
	for _, table := range schemaTables {
		var exists bool
		if err := db.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			return nil, errFailedCheckTable(table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}

	return missing, nil
}
