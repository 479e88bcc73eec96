// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const specialtyColumns = `id, name, name_ar, icon, description, image_url, video_url, video_type, items, duration, display_order, is_active, created_at, updated_at`

func scanSpecialty(row interface{ Scan(...any) error }) (Specialty, error) {
	var i Specialty
	err := row.Scan(
		&i.ID, &i.Name, &i.NameAr, &i.Icon, &i.Description, &i.ImageUrl,
		&i.VideoUrl, &i.VideoType, &i.Items, &i.Duration, &i.DisplayOrder,
		&i.IsActive, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

// ListSpecialties returns specialties in display order; activeOnly drops hidden ones.
func (q *Queries) ListSpecialties(ctx context.Context, activeOnly bool) ([]Specialty, error) {
	query := `SELECT ` + specialtyColumns + ` FROM specialties`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY display_order, id`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Specialty{}
	for rows.Next() {
		i, err := scanSpecialty(rows)
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

func (q *Queries) GetSpecialtyByID(ctx context.Context, id int64) (Specialty, error) {
	return scanSpecialty(q.db.QueryRowContext(ctx,
		`SELECT `+specialtyColumns+` FROM specialties WHERE id = ?`, id))
}

type CreateSpecialtyParams struct {
	Name         string
	NameAr       string
	Icon         string
	Description  sql.NullString
	ImageUrl     sql.NullString
	VideoUrl     sql.NullString
	VideoType    sql.NullString
	Items        string
	Duration     sql.NullString
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateSpecialty(ctx context.Context, arg CreateSpecialtyParams) (Specialty, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO specialties (name, name_ar, icon, description, image_url, video_url, video_type,
		   items, duration, display_order, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.NameAr, arg.Icon, arg.Description, arg.ImageUrl, arg.VideoUrl,
		arg.VideoType, arg.Items, arg.Duration, arg.DisplayOrder, arg.IsActive,
		arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return Specialty{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Specialty{}, err
	}
	return q.GetSpecialtyByID(ctx, id)
}

// UpdateSpecialtyParams carries a partial update; NULL fields keep their value.
type UpdateSpecialtyParams struct {
	Name         sql.NullString
	NameAr       sql.NullString
	Icon         sql.NullString
	Description  sql.NullString
	ImageUrl     sql.NullString
	VideoUrl     sql.NullString
	VideoType    sql.NullString
	Items        sql.NullString
	Duration     sql.NullString
	DisplayOrder sql.NullInt64
	IsActive     sql.NullBool
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateSpecialty(ctx context.Context, arg UpdateSpecialtyParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE specialties SET
		   name = COALESCE(?, name),
		   name_ar = COALESCE(?, name_ar),
		   icon = COALESCE(?, icon),
		   description = COALESCE(?, description),
		   image_url = COALESCE(?, image_url),
		   video_url = COALESCE(?, video_url),
		   video_type = COALESCE(?, video_type),
		   items = COALESCE(?, items),
		   duration = COALESCE(?, duration),
		   display_order = COALESCE(?, display_order),
		   is_active = COALESCE(?, is_active),
		   updated_at = ?
		 WHERE id = ?`,
		arg.Name, arg.NameAr, arg.Icon, arg.Description, arg.ImageUrl, arg.VideoUrl,
		arg.VideoType, arg.Items, arg.Duration, arg.DisplayOrder, arg.IsActive,
		arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteSpecialty(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM specialties WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
