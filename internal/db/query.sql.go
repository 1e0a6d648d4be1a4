package db

import (
	"context"
	"database/sql"
)

const getNotification = `-- name: GetNotification :one
SELECT id, is_read, owner_id
FROM notifications
WHERE id = ?
`

type GetNotificationRow struct {
	ID      string
	IsRead  bool
	OwnerID int64
}

func (q *Queries) GetNotification(ctx context.Context, id string) (GetNotificationRow, error) {
	row := q.db.QueryRowContext(ctx, getNotification, id)
	var i GetNotificationRow
	err := row.Scan(&i.ID, &i.IsRead, &i.OwnerID)
	return i, err
}

const getNotificationForUpdate = `-- name: GetNotificationForUpdate :one
SELECT id, is_read, owner_id
FROM notifications
WHERE id = ?
FOR UPDATE
`

type GetNotificationForUpdateRow struct {
	ID      string
	IsRead  bool
	OwnerID int64
}

func (q *Queries) GetNotificationForUpdate(ctx context.Context, id string) (GetNotificationForUpdateRow, error) {
	row := q.db.QueryRowContext(ctx, getNotificationForUpdate, id)
	var i GetNotificationForUpdateRow
	err := row.Scan(&i.ID, &i.IsRead, &i.OwnerID)
	return i, err
}

const insertNotificationIgnore = `-- name: InsertNotificationIgnore :execresult
INSERT IGNORE INTO notifications (id, is_read, owner_id)
VALUES (?, ?, ?)
`

type InsertNotificationIgnoreParams struct {
	ID      string
	IsRead  bool
	OwnerID int64
}

func (q *Queries) InsertNotificationIgnore(ctx context.Context, arg InsertNotificationIgnoreParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertNotificationIgnore, arg.ID, arg.IsRead, arg.OwnerID)
}

const setNotificationRead = `-- name: SetNotificationRead :exec
UPDATE notifications
SET is_read = ?
WHERE id = ?
`

type SetNotificationReadParams struct {
	IsRead bool
	ID     string
}

func (q *Queries) SetNotificationRead(ctx context.Context, arg SetNotificationReadParams) error {
	_, err := q.db.ExecContext(ctx, setNotificationRead, arg.IsRead, arg.ID)
	return err
}

const upsertNotification = `-- name: UpsertNotification :exec
INSERT INTO notifications (id, is_read, owner_id)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE is_read = VALUES(is_read)
`

type UpsertNotificationParams struct {
	ID      string
	IsRead  bool
	OwnerID int64
}

func (q *Queries) UpsertNotification(ctx context.Context, arg UpsertNotificationParams) error {
	_, err := q.db.ExecContext(ctx, upsertNotification, arg.ID, arg.IsRead, arg.OwnerID)
	return err
}
