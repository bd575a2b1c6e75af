package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

func Schema() string { return schemaSQL }

// Migrate はスキーマを流す。CREATE TABLE IF NOT EXISTS なので何度流しても良い
func Migrate(ctx context.Context, conn DBTX) error {
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
