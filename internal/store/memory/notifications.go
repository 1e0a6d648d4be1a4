package memory

import (
	"context"

	"markread_demo/internal/model"
	"markread_demo/internal/repository"
)

func (s *Store) GetNotification(_ context.Context, id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.records[id]
	if !ok {
		return model.Notification{}, repository.ErrNotificationNotFound
	}
	return n, nil
}

func (s *Store) SaveNotification(_ context.Context, notification model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[notification.ID] = notification
	return nil
}

func (s *Store) UpdateNotification(_ context.Context, id string, fn repository.UpdateFunc) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[id]
	if !ok {
		return model.Notification{}, repository.ErrNotificationNotFound
	}
	next := current
	if err := fn(&next); err != nil {
		return current, err
	}
	// The owner is immutable; only the read flag may change.
	next.ID = current.ID
	next.OwnerID = current.OwnerID
	s.records[id] = next
	return next, nil
}
