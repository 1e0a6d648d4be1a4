package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"markread_demo/internal/db"
	"markread_demo/internal/model"
	"markread_demo/internal/repository"
)

func (s *Store) GetNotification(ctx context.Context, id string) (model.Notification, error) {
	row, err := s.queries.GetNotification(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Notification{}, repository.ErrNotificationNotFound
	}
	if err != nil {
		s.log.Error("sql get notification failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}
	return model.Notification{ID: row.ID, IsRead: row.IsRead, OwnerID: row.OwnerID}, nil
}

func (s *Store) SaveNotification(ctx context.Context, notification model.Notification) error {
	if err := s.queries.UpsertNotification(ctx, db.UpsertNotificationParams{
		ID:      notification.ID,
		IsRead:  notification.IsRead,
		OwnerID: notification.OwnerID,
	}); err != nil {
		s.log.Error("sql save notification failed", zap.String("id", notification.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) UpdateNotification(ctx context.Context, id string, fn repository.UpdateFunc) (model.Notification, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		s.log.Error("sql begin tx failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	row, err := qtx.GetNotificationForUpdate(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Notification{}, repository.ErrNotificationNotFound
	}
	if err != nil {
		s.log.Error("sql lock notification failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}

	current := model.Notification{ID: row.ID, IsRead: row.IsRead, OwnerID: row.OwnerID}
	next := current
	if err := fn(&next); err != nil {
		return current, err
	}

	if next.IsRead != current.IsRead {
		if err := qtx.SetNotificationRead(ctx, db.SetNotificationReadParams{IsRead: next.IsRead, ID: id}); err != nil {
			s.log.Error("sql set notification read failed", zap.String("id", id), zap.Error(err))
			return current, err
		}
	}
	if err := tx.Commit(); err != nil {
		s.log.Error("sql commit failed", zap.String("id", id), zap.Error(err))
		return current, fmt.Errorf("commit: %w", err)
	}
	next.ID = current.ID
	next.OwnerID = current.OwnerID
	return next, nil
}
