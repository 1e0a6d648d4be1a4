package mysql

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
	"markread_demo/internal/db"
	"markread_demo/internal/repository"
)

type Store struct {
	conn    *sql.DB
	queries *db.Queries
	log     *zap.Logger
}

func New(conn *sql.DB, logger *zap.Logger) *Store {
	return &Store{conn: conn, queries: db.New(conn), log: logger}
}

// Seed inserts the fixture records that are not present yet. Existing rows
// keep their read state.
func (s *Store) Seed(ctx context.Context) error {
	for _, n := range repository.Seed() {
		if _, err := s.queries.InsertNotificationIgnore(ctx, db.InsertNotificationIgnoreParams{
			ID:      n.ID,
			IsRead:  n.IsRead,
			OwnerID: n.OwnerID,
		}); err != nil {
			s.log.Error("sql seed notification failed", zap.String("id", n.ID), zap.Error(err))
			return err
		}
	}
	return nil
}
