// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/campus-site/internal/cache"
	"github.com/olegiv/campus-site/internal/imaging"
	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/util"
)

const (
	heroCachePrefix      = "media:hero:"
	specialtyCachePrefix = "media:specialties:"

	// DefaultSpecialtyIcon is used when a specialty is created without an icon.
	DefaultSpecialtyIcon = "graduation-cap"
)

// CreateHeroSlideInput is the body of a hero slide creation request.
type CreateHeroSlideInput struct {
	Title        *string `json:"title" validate:"omitempty,max=255"`
	Subtitle     *string `json:"subtitle" validate:"omitempty,max=500"`
	ImageURL     string  `json:"image_url" validate:"required,max=500"`
	LinkURL      *string `json:"link_url" validate:"omitempty,max=500"`
	LinkText     *string `json:"link_text" validate:"omitempty,max=100"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateHeroSlideInput is a partial hero slide update; nil fields are kept.
type UpdateHeroSlideInput struct {
	Title        *string `json:"title" validate:"omitempty,max=255"`
	Subtitle     *string `json:"subtitle" validate:"omitempty,max=500"`
	ImageURL     *string `json:"image_url" validate:"omitempty,notblank,max=500"`
	LinkURL      *string `json:"link_url" validate:"omitempty,max=500"`
	LinkText     *string `json:"link_text" validate:"omitempty,max=100"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

// CreateSpecialtyInput is the body of a specialty creation request.
type CreateSpecialtyInput struct {
	Name         string   `json:"name" validate:"required,max=255"`
	NameAr       string   `json:"name_ar" validate:"required,max=255"`
	Icon         string   `json:"icon" validate:"omitempty,max=100"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,max=500"`
	VideoURL     *string  `json:"video_url" validate:"omitempty,max=500"`
	VideoType    *string  `json:"video_type" validate:"omitempty,oneof=youtube vimeo drive"`
	Items        []string `json:"items" validate:"omitempty,dive,max=500"`
	Duration     *string  `json:"duration" validate:"omitempty,max=100"`
	DisplayOrder *int64   `json:"display_order" validate:"omitempty,min=0"`
	IsActive     *bool    `json:"is_active"`
}

// UpdateSpecialtyInput is a partial specialty update. nil fields, including
// a nil Items slice, are kept.
type UpdateSpecialtyInput struct {
	Name         *string  `json:"name" validate:"omitempty,notblank,max=255"`
	NameAr       *string  `json:"name_ar" validate:"omitempty,notblank,max=255"`
	Icon         *string  `json:"icon" validate:"omitempty,max=100"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,max=500"`
	VideoURL     *string  `json:"video_url" validate:"omitempty,max=500"`
	VideoType    *string  `json:"video_type" validate:"omitempty,oneof=youtube vimeo drive"`
	Items        []string `json:"items" validate:"omitempty,dive,max=500"`
	Duration     *string  `json:"duration" validate:"omitempty,max=100"`
	DisplayOrder *int64   `json:"display_order" validate:"omitempty,min=0"`
	IsActive     *bool    `json:"is_active"`
}

// MediaConfig holds the upload settings of a MediaService.
type MediaConfig struct {
	UploadURLPrefix string
	MaxUploadSize   int64
	CacheTTL        time.Duration
}

// MediaService manages hero slides, specialties and uploaded images.
type MediaService struct {
	queries   *store.Queries
	cache     cache.Cache
	processor *imaging.Processor
	cfg       MediaConfig
	logger    *slog.Logger
}

// NewMediaService creates a new MediaService. c may be nil to disable caching.
func NewMediaService(db *sql.DB, c cache.Cache, processor *imaging.Processor, cfg MediaConfig, logger *slog.Logger) *MediaService {
	cfg.UploadURLPrefix = "/" + strings.Trim(cfg.UploadURLPrefix, "/")
	return &MediaService{
		queries:   store.New(db),
		cache:     c,
		processor: processor,
		cfg:       cfg,
		logger:    logger,
	}
}

// ListActiveHeroSlides returns active slides in display order.
func (s *MediaService) ListActiveHeroSlides(ctx context.Context) ([]model.HeroSlide, error) {
	return cache.Remember(ctx, s.cache, heroCachePrefix+"active", s.cfg.CacheTTL,
		func(ctx context.Context) ([]model.HeroSlide, error) {
			return s.listHeroSlides(ctx, true)
		})
}

// ListAllHeroSlides returns every slide in display order.
func (s *MediaService) ListAllHeroSlides(ctx context.Context) ([]model.HeroSlide, error) {
	return s.listHeroSlides(ctx, false)
}

func (s *MediaService) listHeroSlides(ctx context.Context, activeOnly bool) ([]model.HeroSlide, error) {
	rows, err := s.queries.ListHeroSlides(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing hero slides: %w", err)
	}
	slides := make([]model.HeroSlide, 0, len(rows))
	for _, row := range rows {
		slides = append(slides, heroSlideFromStore(row))
	}
	return slides, nil
}

// GetHeroSlide returns one slide.
func (s *MediaService) GetHeroSlide(ctx context.Context, id int64) (model.HeroSlide, error) {
	row, err := s.queries.GetHeroSlideByID(ctx, id)
	if store.IsNotFound(err) {
		return model.HeroSlide{}, notFound("Hero slide")
	}
	if err != nil {
		return model.HeroSlide{}, fmt.Errorf("getting hero slide %d: %w", id, err)
	}
	return heroSlideFromStore(row), nil
}

// CreateHeroSlide adds a slide. Slides are active unless IsActive is false.
func (s *MediaService) CreateHeroSlide(ctx context.Context, in CreateHeroSlideInput) (model.HeroSlide, error) {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validateInput(in); err != nil {
		return model.HeroSlide{}, err
	}

	var order int64
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	row, err := s.queries.CreateHeroSlide(ctx, store.CreateHeroSlideParams{
		Title:        nullableText(in.Title),
		Subtitle:     nullableText(in.Subtitle),
		ImageUrl:     in.ImageURL,
		LinkUrl:      nullableText(in.LinkURL),
		LinkText:     nullableText(in.LinkText),
		DisplayOrder: order,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return model.HeroSlide{}, fmt.Errorf("creating hero slide: %w", err)
	}
	cache.Invalidate(ctx, s.cache, heroCachePrefix)
	return heroSlideFromStore(row), nil
}

// UpdateHeroSlide applies a partial update. Replacing the image removes the
// previous file when it was uploaded here.
func (s *MediaService) UpdateHeroSlide(ctx context.Context, id int64, in UpdateHeroSlideInput) (model.HeroSlide, error) {
	if err := validateInput(in); err != nil {
		return model.HeroSlide{}, err
	}

	existing, err := s.GetHeroSlide(ctx, id)
	if err != nil {
		return model.HeroSlide{}, err
	}

	n, err := s.queries.UpdateHeroSlide(ctx, store.UpdateHeroSlideParams{
		Title:        optString(in.Title),
		Subtitle:     optString(in.Subtitle),
		ImageUrl:     optString(in.ImageURL),
		LinkUrl:      optString(in.LinkURL),
		LinkText:     optString(in.LinkText),
		DisplayOrder: optInt(in.DisplayOrder),
		IsActive:     optBool(in.IsActive),
		ID:           id,
	})
	if err != nil {
		return model.HeroSlide{}, fmt.Errorf("updating hero slide %d: %w", id, err)
	}
	if n == 0 {
		return model.HeroSlide{}, notFound("Hero slide")
	}
	cache.Invalidate(ctx, s.cache, heroCachePrefix)

	updated, err := s.GetHeroSlide(ctx, id)
	if err != nil {
		return model.HeroSlide{}, err
	}
	if updated.ImageURL != existing.ImageURL {
		s.removeManagedFile(existing.ImageURL)
	}
	return updated, nil
}

// DeleteHeroSlide removes a slide and its uploaded image.
func (s *MediaService) DeleteHeroSlide(ctx context.Context, id int64) error {
	existing, err := s.GetHeroSlide(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.queries.DeleteHeroSlide(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting hero slide %d: %w", id, err)
	}
	if n == 0 {
		return notFound("Hero slide")
	}
	cache.Invalidate(ctx, s.cache, heroCachePrefix)
	s.removeManagedFile(existing.ImageURL)
	return nil
}

// ListActiveSpecialties returns active specialties in display order.
func (s *MediaService) ListActiveSpecialties(ctx context.Context) ([]model.Specialty, error) {
	return cache.Remember(ctx, s.cache, specialtyCachePrefix+"active", s.cfg.CacheTTL,
		func(ctx context.Context) ([]model.Specialty, error) {
			return s.listSpecialties(ctx, true)
		})
}

// ListAllSpecialties returns every specialty in display order.
func (s *MediaService) ListAllSpecialties(ctx context.Context) ([]model.Specialty, error) {
	return s.listSpecialties(ctx, false)
}

func (s *MediaService) listSpecialties(ctx context.Context, activeOnly bool) ([]model.Specialty, error) {
	rows, err := s.queries.ListSpecialties(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing specialties: %w", err)
	}
	items := make([]model.Specialty, 0, len(rows))
	for _, row := range rows {
		items = append(items, specialtyFromStore(row, s.logger))
	}
	return items, nil
}

// GetSpecialty returns one specialty.
func (s *MediaService) GetSpecialty(ctx context.Context, id int64) (model.Specialty, error) {
	row, err := s.queries.GetSpecialtyByID(ctx, id)
	if store.IsNotFound(err) {
		return model.Specialty{}, notFound("Specialty")
	}
	if err != nil {
		return model.Specialty{}, fmt.Errorf("getting specialty %d: %w", id, err)
	}
	return specialtyFromStore(row, s.logger), nil
}

// CreateSpecialty adds a specialty. When a video URL is given without a
// type, the type is taken from the URL.
func (s *MediaService) CreateSpecialty(ctx context.Context, in CreateSpecialtyInput) (model.Specialty, error) {
	in.Name = util.NormalizeText(in.Name)
	in.NameAr = util.NormalizeText(in.NameAr)
	in.Icon = strings.TrimSpace(in.Icon)
	if err := validateInput(in); err != nil {
		return model.Specialty{}, err
	}
	if in.Icon == "" {
		in.Icon = DefaultSpecialtyIcon
	}
	if in.VideoType == nil {
		in.VideoType = inferVideoType(in.VideoURL)
	}

	var order int64
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := time.Now().UTC()
	row, err := s.queries.CreateSpecialty(ctx, store.CreateSpecialtyParams{
		Name:         in.Name,
		NameAr:       in.NameAr,
		Icon:         in.Icon,
		Description:  nullableText(in.Description),
		ImageUrl:     nullableText(in.ImageURL),
		VideoUrl:     nullableText(in.VideoURL),
		VideoType:    nullableText(in.VideoType),
		Items:        encodeItems(cleanItems(in.Items)),
		Duration:     nullableText(in.Duration),
		DisplayOrder: order,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.Specialty{}, fmt.Errorf("creating specialty: %w", err)
	}
	cache.Invalidate(ctx, s.cache, specialtyCachePrefix)
	return specialtyFromStore(row, s.logger), nil
}

// UpdateSpecialty applies a partial update. Replacing the image removes the
// previous file when it was uploaded here.
func (s *MediaService) UpdateSpecialty(ctx context.Context, id int64, in UpdateSpecialtyInput) (model.Specialty, error) {
	if err := validateInput(in); err != nil {
		return model.Specialty{}, err
	}

	existing, err := s.GetSpecialty(ctx, id)
	if err != nil {
		return model.Specialty{}, err
	}

	if in.VideoURL != nil && in.VideoType == nil {
		inferred := inferVideoType(in.VideoURL)
		if inferred == nil {
			inferred = new(string)
		}
		in.VideoType = inferred
	}

	var items sql.NullString
	if in.Items != nil {
		items = sql.NullString{String: encodeItems(cleanItems(in.Items)), Valid: true}
	}

	n, err := s.queries.UpdateSpecialty(ctx, store.UpdateSpecialtyParams{
		Name:         optString(in.Name),
		NameAr:       optString(in.NameAr),
		Icon:         optString(in.Icon),
		Description:  optString(in.Description),
		ImageUrl:     optString(in.ImageURL),
		VideoUrl:     optString(in.VideoURL),
		VideoType:    optString(in.VideoType),
		Items:        items,
		Duration:     optString(in.Duration),
		DisplayOrder: optInt(in.DisplayOrder),
		IsActive:     optBool(in.IsActive),
		UpdatedAt:    time.Now().UTC(),
		ID:           id,
	})
	if err != nil {
		return model.Specialty{}, fmt.Errorf("updating specialty %d: %w", id, err)
	}
	if n == 0 {
		return model.Specialty{}, notFound("Specialty")
	}
	cache.Invalidate(ctx, s.cache, specialtyCachePrefix)

	updated, err := s.GetSpecialty(ctx, id)
	if err != nil {
		return model.Specialty{}, err
	}
	if existing.ImageURL != nil && (updated.ImageURL == nil || *updated.ImageURL != *existing.ImageURL) {
		s.removeManagedFile(*existing.ImageURL)
	}
	return updated, nil
}

// DeleteSpecialty removes a specialty and its uploaded image.
func (s *MediaService) DeleteSpecialty(ctx context.Context, id int64) error {
	existing, err := s.GetSpecialty(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.queries.DeleteSpecialty(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting specialty %d: %w", id, err)
	}
	if n == 0 {
		return notFound("Specialty")
	}
	cache.Invalidate(ctx, s.cache, specialtyCachePrefix)
	if existing.ImageURL != nil {
		s.removeManagedFile(*existing.ImageURL)
	}
	return nil
}

// UploadImage validates an uploaded image and stores it under the directory
// for uploadType. The file extension comes from the sniffed content, not the
// client's file name.
func (s *MediaService) UploadImage(_ context.Context, uploadType, filename string, data []byte) (model.Upload, error) {
	if !model.IsValidUploadType(uploadType) {
		return model.Upload{}, invalidInput("Invalid upload type")
	}
	if s.cfg.MaxUploadSize > 0 && int64(len(data)) > s.cfg.MaxUploadSize {
		return model.Upload{}, invalidInput("File too large (max %d MB)", s.cfg.MaxUploadSize>>20)
	}
	if len(data) == 0 {
		return model.Upload{}, invalidInput("No file uploaded")
	}
	if model.MimeTypeForFilename(filename) == "" {
		return model.Upload{}, invalidInput("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}

	img, err := imaging.Normalize(data)
	if errors.Is(err, imaging.ErrTooLarge) {
		return model.Upload{}, invalidInput("Image dimensions too large")
	}
	if err != nil {
		return model.Upload{}, invalidInput("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), model.ExtensionForMimeType(img.MimeType))
	if _, err := s.processor.Save(uploadType, name, img.Data); err != nil {
		return model.Upload{}, fmt.Errorf("saving upload: %w", err)
	}

	return model.Upload{
		URL:      s.cfg.UploadURLPrefix + "/" + uploadType + "/" + name,
		Filename: name,
		MimeType: img.MimeType,
		Size:     int64(len(img.Data)),
		Width:    img.Width,
		Height:   img.Height,
	}, nil
}

// DeleteUpload removes an uploaded file by its public URL.
func (s *MediaService) DeleteUpload(_ context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return invalidInput("url is required")
	}
	path, ok := util.URLToManagedPath(url, s.cfg.UploadURLPrefix, s.processor.UploadDir())
	if !ok {
		return invalidInput("Invalid file path")
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return notFound("File")
	}
	if err != nil {
		return fmt.Errorf("checking upload: %w", err)
	}
	if info.IsDir() {
		return invalidInput("Invalid file path")
	}
	return s.processor.Remove(path)
}

// removeManagedFile deletes the file behind url when it lives in the uploads
// directory. URLs pointing elsewhere are left alone.
func (s *MediaService) removeManagedFile(url string) {
	path, ok := util.URLToManagedPath(url, s.cfg.UploadURLPrefix, s.processor.UploadDir())
	if !ok {
		return
	}
	if err := s.processor.Remove(path); err != nil {
		s.logger.Warn("failed to remove uploaded file", "category", model.EventCategoryMedia, "url", url, "error", err)
	}
}

func inferVideoType(videoURL *string) *string {
	if videoURL == nil {
		return nil
	}
	info := ParseVideoURL(*videoURL)
	if info == nil {
		return nil
	}
	return &info.Type
}

// cleanItems normalizes items and drops blank entries.
func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = util.NormalizeText(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
