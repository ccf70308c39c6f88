package gormtoken

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenPostgres connects to Postgres with the given DSN, migrates the token
// table, and returns a ready Provider.
func OpenPostgres(dsn string, opts ...gorm.Option) (*Provider, error) {
	db, err := gorm.Open(postgres.Open(dsn), opts...)
	if err != nil {
		return nil, err
	}
	return New(db)
}
