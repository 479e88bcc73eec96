// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/util"
)

func newsFromStore(n store.News) model.NewsArticle {
	return model.NewsArticle{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Category:  n.Category,
		ImageURL:  util.StringPtrFromNull(n.ImageUrl),
		Location:  util.StringPtrFromNull(n.Location),
		Published: n.Published,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func messageFromStore(m store.Message) model.Message {
	return model.Message{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     util.StringPtrFromNull(m.Phone),
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func membershipFromStore(m store.Membership) model.Membership {
	return model.Membership{
		ID:            m.ID,
		FullName:      m.FullName,
		Email:         m.Email,
		Phone:         m.Phone,
		University:    m.University,
		Major:         m.Major,
		AcademicLevel: m.AcademicLevel,
		Wilaya:        m.Wilaya,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
}

func sectionFromStore(s store.PageSection) model.PageSection {
	return model.PageSection{
		ID:           s.ID,
		PageName:     s.PageName,
		SectionID:    s.SectionID,
		SectionTitle: util.StringPtrFromNull(s.SectionTitle),
		Content:      s.Content,
		ContentType:  s.ContentType,
		DisplayOrder: s.DisplayOrder,
		UpdatedAt:    s.UpdatedAt,
	}
}

func heroSlideFromStore(h store.HeroSlide) model.HeroSlide {
	return model.HeroSlide{
		ID:           h.ID,
		Title:        util.StringPtrFromNull(h.Title),
		Subtitle:     util.StringPtrFromNull(h.Subtitle),
		ImageURL:     h.ImageUrl,
		LinkURL:      util.StringPtrFromNull(h.LinkUrl),
		LinkText:     util.StringPtrFromNull(h.LinkText),
		DisplayOrder: h.DisplayOrder,
		IsActive:     h.IsActive,
		CreatedAt:    h.CreatedAt,
	}
}

func specialtyFromStore(s store.Specialty, logger *slog.Logger) model.Specialty {
	return model.Specialty{
		ID:           s.ID,
		Name:         s.Name,
		NameAr:       s.NameAr,
		Icon:         s.Icon,
		Description:  util.StringPtrFromNull(s.Description),
		ImageURL:     util.StringPtrFromNull(s.ImageUrl),
		VideoURL:     util.StringPtrFromNull(s.VideoUrl),
		VideoType:    util.StringPtrFromNull(s.VideoType),
		Items:        decodeItems(s.ID, s.Items, logger),
		Duration:     util.StringPtrFromNull(s.Duration),
		DisplayOrder: s.DisplayOrder,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// decodeItems parses the stored JSON list. A corrupt value yields an empty
// list so one bad row cannot break the programs page.
func decodeItems(id int64, raw string, logger *slog.Logger) []string {
	items := []string{}
	if raw == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("malformed specialty items", "specialty_id", id, "error", err)
		return []string{}
	}
	if items == nil {
		items = []string{}
	}
	return items
}

func encodeItems(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func eventFromStore(e store.Event) model.Event {
	meta := json.RawMessage(e.Metadata)
	if !json.Valid(meta) {
		meta = json.RawMessage("{}")
	}
	return model.Event{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		AdminID:   util.Int64PtrFromNull(e.AdminID),
		Metadata:  meta,
		IPAddress: e.IpAddress,
		CreatedAt: e.CreatedAt,
	}
}

// optString maps an optional text input onto a nullable column, normalizing
// the value; nil stays NULL so COALESCE keeps the stored value.
func optString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: util.NormalizeText(*s), Valid: true}
}

// nullableText stores an optional text input, mapping blank to NULL.
func nullableText(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return util.NullStringFromValue(util.NormalizeText(*s))
}

func optInt(v *int64) sql.NullInt64 {
	return util.NullInt64FromPtr(v)
}

func optBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

// normalizePtr trims and NFC-normalizes *s in place.
func normalizePtr(s *string) {
	if s != nil {
		*s = util.NormalizeText(*s)
	}
}
