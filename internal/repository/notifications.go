package repository

import (
	"context"
	"errors"

	"markread_demo/internal/model"
)

var ErrNotificationNotFound = errors.New("notification not found")

// UpdateFunc mutates a record in place. Returning an error aborts the update
// and nothing is written.
type UpdateFunc func(n *model.Notification) error

type NotificationRepository interface {
	GetNotification(ctx context.Context, id string) (model.Notification, error)
	SaveNotification(ctx context.Context, notification model.Notification) error
	// UpdateNotification runs fn against the stored record for id as one
	// atomic read-check-write and returns the record as stored afterwards.
	UpdateNotification(ctx context.Context, id string, fn UpdateFunc) (model.Notification, error)
}

// Seed is the fixture loaded into every fresh store.
func Seed() []model.Notification {
	return []model.Notification{
		{ID: "1", IsRead: false, OwnerID: 1},
		{ID: "2", IsRead: false, OwnerID: 1},
		{ID: "3", IsRead: true, OwnerID: 2},
	}
}
