package postgres

import (
	"context"
	"database/sql"
)

// Queryer abstrai *sql.DB para os repositórios, permitindo substituição em testes
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) *sql.Row
}
