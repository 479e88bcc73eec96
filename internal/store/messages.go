// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const messageColumns = `id, name, email, phone, subject, message, is_read, created_at`

func scanMessage(row interface{ Scan(...any) error }) (Message, error) {
	var i Message
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.Phone, &i.Subject, &i.Message, &i.IsRead, &i.CreatedAt)
	return i, err
}

type CreateMessageParams struct {
	Name      string
	Email     string
	Phone     sql.NullString
	Subject   string
	Message   string
	CreatedAt time.Time
}

func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO messages (name, email, phone, subject, message, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		arg.Name, arg.Email, arg.Phone, arg.Subject, arg.Message, arg.CreatedAt,
	)
	if err != nil {
		return Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Message{}, err
	}
	return q.GetMessageByID(ctx, id)
}

func (q *Queries) GetMessageByID(ctx context.Context, id int64) (Message, error) {
	return scanMessage(q.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
}

func (q *Queries) ListMessages(ctx context.Context) ([]Message, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Message{}
	for rows.Next() {
		i, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) CountUnreadMessages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE is_read = 0`).Scan(&count)
	return count, err
}

type SetMessageReadParams struct {
	IsRead bool
	ID     int64
}

func (q *Queries) SetMessageRead(ctx context.Context, arg SetMessageReadParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE messages SET is_read = ? WHERE id = ?`, arg.IsRead, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteMessage(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
