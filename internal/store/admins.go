// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const adminColumns = `id, username, password_hash, created_at, updated_at`

func scanAdmin(row interface{ Scan(...any) error }) (Admin, error) {
	var i Admin
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

type CreateAdminParams struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (Admin, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		arg.Username, arg.PasswordHash, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return Admin{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Admin{}, err
	}
	return q.GetAdminByID(ctx, id)
}

func (q *Queries) GetAdminByID(ctx context.Context, id int64) (Admin, error) {
	return scanAdmin(q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = ?`, id))
}

func (q *Queries) GetAdminByUsername(ctx context.Context, username string) (Admin, error) {
	return scanAdmin(q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE username = ?`, username))
}

func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

type UpdateAdminPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateAdminPassword(ctx context.Context, arg UpdateAdminPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID,
	)
	return err
}
