package postgres

import (
	"errors"
	"fmt"
	"mixMatchBundles/pkg/database"
	"mixMatchBundles/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// undefined_table
const pgUndefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

// withSchemaRepair runs op and, when it fails because a table is missing,
// migrates the schema and runs op once more.
func withSchemaRepair(db *gorm.DB, op func() error) error {
	err := op()
	if err == nil || !isUndefinedTable(err) {
		return err
	}

	logger.Warn("table missing, repairing schema", "error", err)
	if mErr := database.Migrate(db); mErr != nil {
		return fmt.Errorf("schema repair failed: %w", mErr)
	}

	return op()
}
