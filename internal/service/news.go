// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/util"
)

// MaxNewsLimit caps the limit query parameter of news listings.
const MaxNewsLimit = 100

// CreateNewsInput is the body of a news creation request.
type CreateNewsInput struct {
	Title     string  `json:"title" validate:"required,max=255"`
	Content   string  `json:"content" validate:"required"`
	Category  string  `json:"category" validate:"omitempty,oneof=news event announcement"`
	ImageURL  *string `json:"image_url" validate:"omitempty,max=500"`
	Location  *string `json:"location" validate:"omitempty,max=255"`
	Published *bool   `json:"published"`
}

// UpdateNewsInput is a partial news update; nil fields are kept.
type UpdateNewsInput struct {
	Title     *string `json:"title" validate:"omitempty,notblank,max=255"`
	Content   *string `json:"content" validate:"omitempty,notblank"`
	Category  *string `json:"category" validate:"omitempty,oneof=news event announcement"`
	ImageURL  *string `json:"image_url" validate:"omitempty,max=500"`
	Location  *string `json:"location" validate:"omitempty,max=255"`
	Published *bool   `json:"published"`
}

// NewsFilter selects news for listings. A nil Published matches both
// states, Category "" or "all" matches every category, Limit 0 is unlimited.
type NewsFilter struct {
	Published *bool
	Category  string
	Limit     int
}

// NewsService manages news articles.
type NewsService struct {
	queries *store.Queries
}

// NewNewsService creates a new NewsService.
func NewNewsService(db *sql.DB) *NewsService {
	return &NewsService{queries: store.New(db)}
}

// ListPublished returns published articles, newest first.
func (s *NewsService) ListPublished(ctx context.Context, category string, limit int) ([]model.NewsArticle, error) {
	published := true
	return s.List(ctx, NewsFilter{Published: &published, Category: category, Limit: limit})
}

// ListAll returns every article regardless of publication state.
func (s *NewsService) ListAll(ctx context.Context) ([]model.NewsArticle, error) {
	return s.List(ctx, NewsFilter{})
}

// List returns articles matching f, newest first.
func (s *NewsService) List(ctx context.Context, f NewsFilter) ([]model.NewsArticle, error) {
	if f.Limit < 0 {
		return nil, invalidInput("limit must be a positive integer")
	}
	if f.Limit > MaxNewsLimit {
		f.Limit = MaxNewsLimit
	}
	category := f.Category
	if category == model.NewsCategoryAll {
		category = ""
	}

	var published sql.NullBool
	if f.Published != nil {
		published = sql.NullBool{Bool: *f.Published, Valid: true}
	}

	rows, err := s.queries.ListNews(ctx, store.ListNewsParams{
		Published: published,
		Category:  category,
		Limit:     int64(f.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing news: %w", err)
	}

	articles := make([]model.NewsArticle, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, newsFromStore(row))
	}
	return articles, nil
}

// GetByID returns one article.
func (s *NewsService) GetByID(ctx context.Context, id int64) (model.NewsArticle, error) {
	row, err := s.queries.GetNewsByID(ctx, id)
	if store.IsNotFound(err) {
		return model.NewsArticle{}, notFound("News")
	}
	if err != nil {
		return model.NewsArticle{}, fmt.Errorf("getting news %d: %w", id, err)
	}
	return newsFromStore(row), nil
}

// Create adds an article. Category defaults to news and articles are
// published unless Published is false.
func (s *NewsService) Create(ctx context.Context, in CreateNewsInput) (model.NewsArticle, error) {
	in.Title = util.NormalizeText(in.Title)
	in.Content = util.NormalizeText(in.Content)
	if in.Category == "" {
		in.Category = model.NewsCategoryNews
	}
	if err := validateInput(in); err != nil {
		return model.NewsArticle{}, err
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	now := time.Now().UTC()
	row, err := s.queries.CreateNews(ctx, store.CreateNewsParams{
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		ImageUrl:  nullableText(in.ImageURL),
		Location:  nullableText(in.Location),
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.NewsArticle{}, fmt.Errorf("creating news: %w", err)
	}
	return newsFromStore(row), nil
}

// Update applies a partial update to an article.
func (s *NewsService) Update(ctx context.Context, id int64, in UpdateNewsInput) (model.NewsArticle, error) {
	if err := validateInput(in); err != nil {
		return model.NewsArticle{}, err
	}

	n, err := s.queries.UpdateNews(ctx, store.UpdateNewsParams{
		Title:     optString(in.Title),
		Content:   optString(in.Content),
		Category:  optString(in.Category),
		ImageUrl:  optString(in.ImageURL),
		Location:  optString(in.Location),
		Published: optBool(in.Published),
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return model.NewsArticle{}, fmt.Errorf("updating news %d: %w", id, err)
	}
	if n == 0 {
		return model.NewsArticle{}, notFound("News")
	}
	return s.GetByID(ctx, id)
}

// Delete removes an article.
func (s *NewsService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteNews(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting news %d: %w", id, err)
	}
	if n == 0 {
		return notFound("News")
	}
	return nil
}

// TogglePublish flips the published flag and returns the updated article.
func (s *NewsService) TogglePublish(ctx context.Context, id int64) (model.NewsArticle, error) {
	n, err := s.queries.ToggleNewsPublished(ctx, store.ToggleNewsPublishedParams{
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return model.NewsArticle{}, fmt.Errorf("toggling news %d: %w", id, err)
	}
	if n == 0 {
		return model.NewsArticle{}, notFound("News")
	}
	return s.GetByID(ctx, id)
}
