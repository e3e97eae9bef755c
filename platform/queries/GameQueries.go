package queries

import (
	"context"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/go-pg/pg/v10"
)

// ResultStore records finished games in Postgres.
type ResultStore struct {
	db *pg.DB
}

func NewResultStore(db *pg.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) RecordResult(ctx context.Context, result models.GameResult) error {
	_, err := s.db.ModelContext(ctx, &result).OnConflict("(id) DO NOTHING").Insert()
	return err
}

func (s *ResultStore) RecentResults(ctx context.Context, limit int) ([]models.GameResult, error) {
	var results []models.GameResult
	err := s.db.ModelContext(ctx, &results).Order("finished_at DESC").Limit(limit).Select()
	if err != nil {
		return nil, err
	}
	return results, nil
}
