// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const newsColumns = `id, title, content, category, image_url, location, published, created_at, updated_at`

func scanNews(row interface{ Scan(...any) error }) (News, error) {
	var i News
	err := row.Scan(
		&i.ID, &i.Title, &i.Content, &i.Category, &i.ImageUrl, &i.Location,
		&i.Published, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

type CreateNewsParams struct {
	Title     string
	Content   string
	Category  string
	ImageUrl  sql.NullString
	Location  sql.NullString
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (News, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO news (title, content, category, image_url, location, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Content, arg.Category, arg.ImageUrl, arg.Location,
		arg.Published, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return News{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return News{}, err
	}
	return q.GetNewsByID(ctx, id)
}

func (q *Queries) GetNewsByID(ctx context.Context, id int64) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news WHERE id = ?`, id))
}

// ListNewsParams filters news. A NULL Published matches both states, an
// empty Category matches every category, and Limit <= 0 means no limit.
type ListNewsParams struct {
	Published sql.NullBool
	Category  string
	Limit     int64
}

func (q *Queries) ListNews(ctx context.Context, arg ListNewsParams) ([]News, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news
		 WHERE (? IS NULL OR published = ?)
		   AND (? = '' OR category = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		arg.Published, arg.Published, arg.Category, arg.Category, limitOrAll(arg.Limit),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []News{}
	for rows.Next() {
		i, err := scanNews(rows)
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

// UpdateNewsParams carries a partial update; NULL fields keep their value.
type UpdateNewsParams struct {
	Title     sql.NullString
	Content   sql.NullString
	Category  sql.NullString
	ImageUrl  sql.NullString
	Location  sql.NullString
	Published sql.NullBool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE news SET
		   title = COALESCE(?, title),
		   content = COALESCE(?, content),
		   category = COALESCE(?, category),
		   image_url = COALESCE(?, image_url),
		   location = COALESCE(?, location),
		   published = COALESCE(?, published),
		   updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Content, arg.Category, arg.ImageUrl, arg.Location,
		arg.Published, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ToggleNewsPublishedParams struct {
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) ToggleNewsPublished(ctx context.Context, arg ToggleNewsPublishedParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE news SET published = CASE WHEN published = 1 THEN 0 ELSE 1 END, updated_at = ? WHERE id = ?`,
		arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteNews(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
