// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageSectionColumns = `id, page_name, section_id, section_title, content, content_type, display_order, updated_at`

func scanPageSection(row interface{ Scan(...any) error }) (PageSection, error) {
	var i PageSection
	err := row.Scan(
		&i.ID, &i.PageName, &i.SectionID, &i.SectionTitle, &i.Content,
		&i.ContentType, &i.DisplayOrder, &i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryPageSections(ctx context.Context, query string, args ...any) ([]PageSection, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []PageSection{}
	for rows.Next() {
		i, err := scanPageSection(rows)
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

// ListAllPageSections returns every section grouped by page, in display order.
func (q *Queries) ListAllPageSections(ctx context.Context) ([]PageSection, error) {
	return q.queryPageSections(ctx,
		`SELECT `+pageSectionColumns+` FROM page_sections ORDER BY page_name, display_order, id`)
}

func (q *Queries) ListPageSections(ctx context.Context, pageName string) ([]PageSection, error) {
	return q.queryPageSections(ctx,
		`SELECT `+pageSectionColumns+` FROM page_sections WHERE page_name = ? ORDER BY display_order, id`,
		pageName)
}

type GetPageSectionParams struct {
	PageName  string
	SectionID string
}

func (q *Queries) GetPageSection(ctx context.Context, arg GetPageSectionParams) (PageSection, error) {
	return scanPageSection(q.db.QueryRowContext(ctx,
		`SELECT `+pageSectionColumns+` FROM page_sections WHERE page_name = ? AND section_id = ?`,
		arg.PageName, arg.SectionID))
}

func (q *Queries) GetPageSectionByID(ctx context.Context, id int64) (PageSection, error) {
	return scanPageSection(q.db.QueryRowContext(ctx,
		`SELECT `+pageSectionColumns+` FROM page_sections WHERE id = ?`, id))
}

func (q *Queries) GetMaxPageSectionOrder(ctx context.Context, pageName string) (int64, error) {
	var maxOrder int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(display_order), 0) FROM page_sections WHERE page_name = ?`, pageName,
	).Scan(&maxOrder)
	return maxOrder, err
}

type CreatePageSectionParams struct {
	PageName     string
	SectionID    string
	SectionTitle sql.NullString
	Content      string
	ContentType  string
	DisplayOrder int64
	UpdatedAt    time.Time
}

// CreatePageSection inserts a section. A duplicate (page_name, section_id)
// fails with a unique violation.
func (q *Queries) CreatePageSection(ctx context.Context, arg CreatePageSectionParams) (PageSection, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO page_sections (page_name, section_id, section_title, content, content_type, display_order, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.PageName, arg.SectionID, arg.SectionTitle, arg.Content, arg.ContentType,
		arg.DisplayOrder, arg.UpdatedAt,
	)
	if err != nil {
		return PageSection{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return PageSection{}, err
	}
	return q.GetPageSectionByID(ctx, id)
}

// UpdatePageSectionParams carries a partial update; NULL fields keep their value.
type UpdatePageSectionParams struct {
	SectionTitle sql.NullString
	Content      sql.NullString
	ContentType  sql.NullString
	DisplayOrder sql.NullInt64
	UpdatedAt    time.Time
	PageName     string
	SectionID    string
}

func (q *Queries) UpdatePageSection(ctx context.Context, arg UpdatePageSectionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE page_sections SET
		   section_title = COALESCE(?, section_title),
		   content = COALESCE(?, content),
		   content_type = COALESCE(?, content_type),
		   display_order = COALESCE(?, display_order),
		   updated_at = ?
		 WHERE page_name = ? AND section_id = ?`,
		arg.SectionTitle, arg.Content, arg.ContentType, arg.DisplayOrder,
		arg.UpdatedAt, arg.PageName, arg.SectionID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeletePageSection(ctx context.Context, arg GetPageSectionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM page_sections WHERE page_name = ? AND section_id = ?`,
		arg.PageName, arg.SectionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
