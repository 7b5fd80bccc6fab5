package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// The implementation owns the DDL for every table it manages.
type Database interface {
	CreateTables(ctx context.Context) error
	DropTables(ctx context.Context) error
	Close() error
}
