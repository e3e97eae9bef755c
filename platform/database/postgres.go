package database

import (
	"context"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/platform/config"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

func PostgreSQLConnection(cfg config.DBConfig) *pg.DB {
	return pg.Connect(&pg.Options{
		User:     cfg.User,
		Addr:     cfg.Addr,
		Password: cfg.Password,
		Database: cfg.Name,
	})
}

// EnsureSchema checks the connection and creates missing tables.
func EnsureSchema(ctx context.Context, db *pg.DB) error {
	if err := db.Ping(ctx); err != nil {
		return err
	}
	return db.Model((*models.GameResult)(nil)).CreateTable(&orm.CreateTableOptions{IfNotExists: true})
}
