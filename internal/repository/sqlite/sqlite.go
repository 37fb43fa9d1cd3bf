package sqlite

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"go.uber.org/zap"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/garnizeh/jobhunt/internal/db"
	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *zap.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.StatsRepo = (*SQLiteRepo)(nil)
var _ repository.UserRepo = (*SQLiteRepo)(nil)

func init() {
	if err := sqlitedrv.RegisterDeterministicScalarFunction(query.FoldSQLFunc, 1, casefold); err != nil {
		panic(fmt.Sprintf("register %s: %v", query.FoldSQLFunc, err))
	}
}

func casefold(_ *sqlitedrv.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return query.Fold(v), nil
	case []byte:
		return query.Fold(string(v)), nil
	default:
		return query.Fold(fmt.Sprint(v)), nil
	}
}

func New(conn *db.DB, logger *zap.Logger) *SQLiteRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
