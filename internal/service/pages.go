// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/campus-site/internal/cache"
	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/util"
)

const pagesCachePrefix = "pages:"

// CreateSectionInput is the body of a section creation request.
type CreateSectionInput struct {
	SectionID    string  `json:"section_id" validate:"required,identifier"`
	SectionTitle *string `json:"section_title" validate:"omitempty,max=255"`
	Content      string  `json:"content" validate:"required"`
	ContentType  string  `json:"content_type" validate:"omitempty,oneof=text html"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,min=0"`
}

// UpdateSectionInput is a partial section update; nil fields are kept.
type UpdateSectionInput struct {
	SectionTitle *string `json:"section_title" validate:"omitempty,max=255"`
	Content      *string `json:"content"`
	ContentType  *string `json:"content_type" validate:"omitempty,oneof=text html"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,min=0"`
}

// BulkSectionInput is one item of a bulk update.
type BulkSectionInput struct {
	SectionID    string  `json:"section_id" validate:"required"`
	Content      string  `json:"content" validate:"required"`
	SectionTitle *string `json:"section_title" validate:"omitempty,max=255"`
}

// BulkUpdateInput is the body of a bulk update request.
type BulkUpdateInput struct {
	Sections []BulkSectionInput `json:"sections" validate:"required,min=1,dive"`
}

// PageService manages editable page sections.
type PageService struct {
	db       *sql.DB
	queries  *store.Queries
	cache    cache.Cache
	cacheTTL time.Duration
	policy   *bluemonday.Policy
}

// NewPageService creates a new PageService. c may be nil to disable caching.
func NewPageService(db *sql.DB, c cache.Cache, cacheTTL time.Duration) *PageService {
	return &PageService{
		db:       db,
		queries:  store.New(db),
		cache:    c,
		cacheTTL: cacheTTL,
		policy:   bluemonday.UGCPolicy(),
	}
}

// ListAllPages returns every page's sections in display order, keyed by page name.
func (s *PageService) ListAllPages(ctx context.Context) (map[string][]model.PageSection, error) {
	return cache.Remember(ctx, s.cache, pagesCachePrefix+"all", s.cacheTTL,
		func(ctx context.Context) (map[string][]model.PageSection, error) {
			rows, err := s.queries.ListAllPageSections(ctx)
			if err != nil {
				return nil, fmt.Errorf("listing page sections: %w", err)
			}
			pages := make(map[string][]model.PageSection)
			for _, row := range rows {
				pages[row.PageName] = append(pages[row.PageName], sectionFromStore(row))
			}
			return pages, nil
		})
}

// GetPageSections returns the sections of one page keyed by section id.
// An unknown page yields an empty map.
func (s *PageService) GetPageSections(ctx context.Context, page string) (map[string]model.SectionContent, error) {
	if !util.IsValidIdentifier(page) {
		return map[string]model.SectionContent{}, nil
	}
	return cache.Remember(ctx, s.cache, pagesCachePrefix+"page:"+page, s.cacheTTL,
		func(ctx context.Context) (map[string]model.SectionContent, error) {
			rows, err := s.queries.ListPageSections(ctx, page)
			if err != nil {
				return nil, fmt.Errorf("listing sections of %s: %w", page, err)
			}
			sections := make(map[string]model.SectionContent, len(rows))
			for _, row := range rows {
				sections[row.SectionID] = model.SectionContent{
					Title:   util.StringPtrFromNull(row.SectionTitle),
					Content: row.Content,
					Type:    row.ContentType,
				}
			}
			return sections, nil
		})
}

// GetSection returns one section.
func (s *PageService) GetSection(ctx context.Context, page, section string) (model.PageSection, error) {
	row, err := s.queries.GetPageSection(ctx, store.GetPageSectionParams{PageName: page, SectionID: section})
	if store.IsNotFound(err) {
		return model.PageSection{}, notFound("Section")
	}
	if err != nil {
		return model.PageSection{}, fmt.Errorf("getting section %s/%s: %w", page, section, err)
	}
	return sectionFromStore(row), nil
}

// CreateSection adds a section to a page. Without a display order the
// section goes after the page's last one.
func (s *PageService) CreateSection(ctx context.Context, page string, in CreateSectionInput) (model.PageSection, error) {
	if !util.IsValidIdentifier(page) {
		return model.PageSection{}, invalidInput("Invalid page name")
	}
	in.SectionID = util.NormalizeText(in.SectionID)
	normalizePtr(in.SectionTitle)
	if in.ContentType == "" {
		in.ContentType = model.ContentTypeText
	}
	if err := validateInput(in); err != nil {
		return model.PageSection{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.PageSection{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	var order int64
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	} else {
		maxOrder, err := q.GetMaxPageSectionOrder(ctx, page)
		if err != nil {
			return model.PageSection{}, fmt.Errorf("reading display order: %w", err)
		}
		order = maxOrder + 1
	}

	row, err := q.CreatePageSection(ctx, store.CreatePageSectionParams{
		PageName:     page,
		SectionID:    in.SectionID,
		SectionTitle: nullableText(in.SectionTitle),
		Content:      s.clean(in.ContentType, in.Content),
		ContentType:  in.ContentType,
		DisplayOrder: order,
		UpdatedAt:    time.Now().UTC(),
	})
	if store.IsUniqueViolation(err) {
		return model.PageSection{}, conflict("Section already exists")
	}
	if err != nil {
		return model.PageSection{}, fmt.Errorf("creating section: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.PageSection{}, fmt.Errorf("committing section: %w", err)
	}

	s.invalidate(ctx)
	return sectionFromStore(row), nil
}

// UpdateSection applies a partial update to a section.
func (s *PageService) UpdateSection(ctx context.Context, page, section string, in UpdateSectionInput) (model.PageSection, error) {
	if err := validateInput(in); err != nil {
		return model.PageSection{}, err
	}
	normalizePtr(in.SectionTitle)

	existing, err := s.queries.GetPageSection(ctx, store.GetPageSectionParams{PageName: page, SectionID: section})
	if store.IsNotFound(err) {
		return model.PageSection{}, notFound("Section")
	}
	if err != nil {
		return model.PageSection{}, fmt.Errorf("getting section %s/%s: %w", page, section, err)
	}

	contentType := existing.ContentType
	if in.ContentType != nil {
		contentType = *in.ContentType
	}

	var content sql.NullString
	switch {
	case in.Content != nil:
		content = sql.NullString{String: s.clean(contentType, *in.Content), Valid: true}
	case contentType != existing.ContentType:
		// Switching to html must not expose previously unsanitized text
		content = sql.NullString{String: s.clean(contentType, existing.Content), Valid: true}
	}

	n, err := s.queries.UpdatePageSection(ctx, store.UpdatePageSectionParams{
		SectionTitle: optString(in.SectionTitle),
		Content:      content,
		ContentType:  optString(in.ContentType),
		DisplayOrder: optInt(in.DisplayOrder),
		UpdatedAt:    time.Now().UTC(),
		PageName:     page,
		SectionID:    section,
	})
	if err != nil {
		return model.PageSection{}, fmt.Errorf("updating section: %w", err)
	}
	if n == 0 {
		return model.PageSection{}, notFound("Section")
	}

	s.invalidate(ctx)
	return s.GetSection(ctx, page, section)
}

// BulkUpdateSections rewrites the content of several sections of a page in
// one transaction. Items naming a section the page does not have are
// counted as processed but change nothing. Any failure rolls back every item.
func (s *PageService) BulkUpdateSections(ctx context.Context, page string, in BulkUpdateInput) (model.BulkUpdateResult, error) {
	if err := validateInput(in); err != nil {
		return model.BulkUpdateResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.BulkUpdateResult{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	now := time.Now().UTC()
	var result model.BulkUpdateResult
	for _, item := range in.Sections {
		result.Processed++

		existing, err := q.GetPageSection(ctx, store.GetPageSectionParams{PageName: page, SectionID: item.SectionID})
		if store.IsNotFound(err) {
			continue
		}
		if err != nil {
			return model.BulkUpdateResult{}, fmt.Errorf("getting section %s/%s: %w", page, item.SectionID, err)
		}

		normalizePtr(item.SectionTitle)
		n, err := q.UpdatePageSection(ctx, store.UpdatePageSectionParams{
			SectionTitle: optString(item.SectionTitle),
			Content:      sql.NullString{String: s.clean(existing.ContentType, item.Content), Valid: true},
			UpdatedAt:    now,
			PageName:     page,
			SectionID:    item.SectionID,
		})
		if err != nil {
			return model.BulkUpdateResult{}, fmt.Errorf("updating section %s/%s: %w", page, item.SectionID, err)
		}
		result.Updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return model.BulkUpdateResult{}, fmt.Errorf("committing bulk update: %w", err)
	}

	if result.Updated > 0 {
		s.invalidate(ctx)
	}
	return result, nil
}

// DeleteSection removes a section.
func (s *PageService) DeleteSection(ctx context.Context, page, section string) error {
	n, err := s.queries.DeletePageSection(ctx, store.GetPageSectionParams{PageName: page, SectionID: section})
	if err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}
	if n == 0 {
		return notFound("Section")
	}
	s.invalidate(ctx)
	return nil
}

// clean sanitizes html content; text content is stored verbatim.
func (s *PageService) clean(contentType, content string) string {
	if contentType == model.ContentTypeHTML {
		return s.policy.Sanitize(content)
	}
	return content
}

func (s *PageService) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, pagesCachePrefix)
}
