package model

import "time"

// Notification is the read-state record of a single notification.
// OwnerID is fixed at creation.
type Notification struct {
	ID      string `json:"id"`
	IsRead  bool   `json:"isRead"`
	OwnerID int64  `json:"ownerId"`
}

// ReadEvent is emitted when a notification moves from unread to read.
type ReadEvent struct {
	NotificationID string    `json:"notificationId"`
	OwnerID        int64     `json:"ownerId"`
	ReadAt         time.Time `json:"readAt"`
}
