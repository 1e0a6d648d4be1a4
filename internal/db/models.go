package db

import (
	"time"
)

type Notification struct {
	ID        string
	IsRead    bool
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
