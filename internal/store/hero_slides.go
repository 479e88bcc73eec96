// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const heroSlideColumns = `id, title, subtitle, image_url, link_url, link_text, display_order, is_active, created_at`

func scanHeroSlide(row interface{ Scan(...any) error }) (HeroSlide, error) {
	var i HeroSlide
	err := row.Scan(
		&i.ID, &i.Title, &i.Subtitle, &i.ImageUrl, &i.LinkUrl, &i.LinkText,
		&i.DisplayOrder, &i.IsActive, &i.CreatedAt,
	)
	return i, err
}

// ListHeroSlides returns slides in display order; activeOnly drops hidden ones.
func (q *Queries) ListHeroSlides(ctx context.Context, activeOnly bool) ([]HeroSlide, error) {
	query := `SELECT ` + heroSlideColumns + ` FROM hero_slides`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY display_order, id`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []HeroSlide{}
	for rows.Next() {
		i, err := scanHeroSlide(rows)
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

func (q *Queries) GetHeroSlideByID(ctx context.Context, id int64) (HeroSlide, error) {
	return scanHeroSlide(q.db.QueryRowContext(ctx,
		`SELECT `+heroSlideColumns+` FROM hero_slides WHERE id = ?`, id))
}

type CreateHeroSlideParams struct {
	Title        sql.NullString
	Subtitle     sql.NullString
	ImageUrl     string
	LinkUrl      sql.NullString
	LinkText     sql.NullString
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
}

func (q *Queries) CreateHeroSlide(ctx context.Context, arg CreateHeroSlideParams) (HeroSlide, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO hero_slides (title, subtitle, image_url, link_url, link_text, display_order, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Subtitle, arg.ImageUrl, arg.LinkUrl, arg.LinkText,
		arg.DisplayOrder, arg.IsActive, arg.CreatedAt,
	)
	if err != nil {
		return HeroSlide{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return HeroSlide{}, err
	}
	return q.GetHeroSlideByID(ctx, id)
}

// UpdateHeroSlideParams carries a partial update; NULL fields keep their value.
type UpdateHeroSlideParams struct {
	Title        sql.NullString
	Subtitle     sql.NullString
	ImageUrl     sql.NullString
	LinkUrl      sql.NullString
	LinkText     sql.NullString
	DisplayOrder sql.NullInt64
	IsActive     sql.NullBool
	ID           int64
}

func (q *Queries) UpdateHeroSlide(ctx context.Context, arg UpdateHeroSlideParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE hero_slides SET
		   title = COALESCE(?, title),
		   subtitle = COALESCE(?, subtitle),
		   image_url = COALESCE(?, image_url),
		   link_url = COALESCE(?, link_url),
		   link_text = COALESCE(?, link_text),
		   display_order = COALESCE(?, display_order),
		   is_active = COALESCE(?, is_active)
		 WHERE id = ?`,
		arg.Title, arg.Subtitle, arg.ImageUrl, arg.LinkUrl, arg.LinkText,
		arg.DisplayOrder, arg.IsActive, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteHeroSlide(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM hero_slides WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
