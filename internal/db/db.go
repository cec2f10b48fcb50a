package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	migration "github.com/Popolzen/linkcut/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DataBase представляет подключение к базе данных
type DataBase struct {
	*sql.DB
	dsn string
}

// NewDataBase открывает подключение по DSN
func NewDataBase(dsn string) (*DataBase, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть подключение: %w", err)
	}
	return &DataBase{
		DB:  db,
		dsn: dsn,
	}, nil
}

// Ping проверяет доступность базы данных
func (d *DataBase) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// Migrate применяет миграции схемы
func (d *DataBase) Migrate() error {
	return migration.MigrateUp(d.DB)
}
