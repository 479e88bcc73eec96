// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/campus-site/internal/cache"
	"github.com/olegiv/campus-site/internal/testutil"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }

func newPageService(t *testing.T) *PageService {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return NewPageService(db, c, time.Minute)
}

func TestPageService_CreateAndGet(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	created, err := s.CreateSection(ctx, "home", CreateSectionInput{
		SectionID:    "hero_title",
		SectionTitle: strPtr("Hero"),
		Content:      "Welcome",
	})
	require.NoError(t, err)
	assert.Equal(t, "home", created.PageName)
	assert.Equal(t, "text", created.ContentType)

	got, err := s.GetSection(ctx, "home", "hero_title")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", got.Content)
	require.NotNil(t, got.SectionTitle)
	assert.Equal(t, "Hero", *got.SectionTitle)
	assert.Equal(t, created.ID, got.ID)
}

func TestPageService_DisplayOrderAssignment(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	first, err := s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "hero_title", Content: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.DisplayOrder)

	second, err := s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "x", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.DisplayOrder)

	other, err := s.CreateSection(ctx, "about", CreateSectionInput{SectionID: "intro", Content: "z"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.DisplayOrder, "orders are per page")

	explicit, err := s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "footer", Content: "f", DisplayOrder: int64Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), explicit.DisplayOrder)
}

func TestPageService_CreateDuplicate(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	_, err := s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "intro", Content: "a"})
	require.NoError(t, err)

	_, err = s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "intro", Content: "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestPageService_CreateInvalid(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		page  string
		in    CreateSectionInput
		field string
	}{
		{"missing section id", "home", CreateSectionInput{Content: "x"}, "section_id"},
		{"missing content", "home", CreateSectionInput{SectionID: "intro"}, "content"},
		{"bad content type", "home", CreateSectionInput{SectionID: "intro", Content: "x", ContentType: "markdown"}, "content_type"},
		{"bad section id", "home", CreateSectionInput{SectionID: "../etc", Content: "x"}, "section_id"},
		{"bad page", "../home", CreateSectionInput{SectionID: "intro", Content: "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateSection(ctx, tt.page, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			if tt.field != "" {
				assert.Contains(t, FieldErrors(err), tt.field)
			}
		})
	}
}

func TestPageService_PartialUpdate(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	created, err := s.CreateSection(ctx, "home", CreateSectionInput{
		SectionID:    "intro",
		SectionTitle: strPtr("Intro"),
		Content:      "old",
	})
	require.NoError(t, err)

	updated, err := s.UpdateSection(ctx, "home", "intro", UpdateSectionInput{Content: strPtr("new")})
	require.NoError(t, err)

	assert.Equal(t, "new", updated.Content)
	require.NotNil(t, updated.SectionTitle)
	assert.Equal(t, "Intro", *updated.SectionTitle)
	assert.Equal(t, created.ContentType, updated.ContentType)
	assert.Equal(t, created.DisplayOrder, updated.DisplayOrder)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = s.UpdateSection(ctx, "home", "missing", UpdateSectionInput{Content: strPtr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPageService_SanitizesHTML(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	created, err := s.CreateSection(ctx, "home", CreateSectionInput{
		SectionID:   "body",
		Content:     `<p>Hello</p><script>alert(1)</script>`,
		ContentType: "html",
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", created.Content)

	plain, err := s.CreateSection(ctx, "home", CreateSectionInput{
		SectionID: "plain",
		Content:   `<b>kept</b>`,
	})
	require.NoError(t, err)
	assert.Equal(t, `<b>kept</b>`, plain.Content)

	switched, err := s.UpdateSection(ctx, "home", "plain", UpdateSectionInput{ContentType: strPtr("html")})
	require.NoError(t, err)
	assert.Equal(t, "html", switched.ContentType)
	assert.Equal(t, `<b>kept</b>`, switched.Content)

	updated, err := s.UpdateSection(ctx, "home", "plain", UpdateSectionInput{Content: strPtr(`<img src=x onerror=alert(1)>`)})
	require.NoError(t, err)
	assert.NotContains(t, updated.Content, "onerror")
}

func TestPageService_BulkUpdate(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	_, err := s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "a", Content: "1"})
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "b", Content: "2"})
	require.NoError(t, err)

	res, err := s.BulkUpdateSections(ctx, "home", BulkUpdateInput{Sections: []BulkSectionInput{
		{SectionID: "a", Content: "one"},
		{SectionID: "b", Content: "two", SectionTitle: strPtr("B")},
		{SectionID: "missing", Content: "ignored"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 2, res.Updated)

	sections, err := s.GetPageSections(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "one", sections["a"].Content)
	assert.Equal(t, "two", sections["b"].Content)
	require.NotNil(t, sections["b"].Title)
	assert.Equal(t, "B", *sections["b"].Title)
	assert.NotContains(t, sections, "missing")
}

func TestPageService_BulkUpdateMissingSection(t *testing.T) {
	s := newPageService(t)

	res, err := s.BulkUpdateSections(context.Background(), "home", BulkUpdateInput{Sections: []BulkSectionInput{
		{SectionID: "nope", Content: "x"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Updated)
}

func TestPageService_BulkUpdateRequiresContent(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	_, err := s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "a", Content: "keep me"})
	require.NoError(t, err)

	_, err = s.BulkUpdateSections(ctx, "home", BulkUpdateInput{Sections: []BulkSectionInput{
		{SectionID: "a", SectionTitle: strPtr("New")},
	}})
	require.True(t, errors.Is(err, ErrInvalidInput), "err = %v", err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Fields, "sections[0].content")

	got, err := s.GetSection(ctx, "home", "a")
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Content)
	assert.Nil(t, got.SectionTitle)
}

func TestPageService_BulkUpdateRollsBackOnFailure(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	_, err := s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "a", Content: "first"})
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "b", Content: "second"})
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `CREATE TRIGGER reject_boom BEFORE UPDATE ON page_sections
		WHEN NEW.content = 'boom'
		BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)

	_, err = s.BulkUpdateSections(ctx, "home", BulkUpdateInput{Sections: []BulkSectionInput{
		{SectionID: "a", Content: "new"},
		{SectionID: "b", Content: "boom"},
	}})
	require.Error(t, err)

	a, err := s.GetSection(ctx, "home", "a")
	require.NoError(t, err)
	assert.Equal(t, "first", a.Content, "earlier items must be rolled back")
	b, err := s.GetSection(ctx, "home", "b")
	require.NoError(t, err)
	assert.Equal(t, "second", b.Content)
}

func TestPageService_BulkUpdateEmpty(t *testing.T) {
	s := newPageService(t)

	_, err := s.BulkUpdateSections(context.Background(), "home", BulkUpdateInput{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPageService_ListAndCacheInvalidation(t *testing.T) {
	s := newPageService(t)
	ctx := context.Background()

	empty, err := s.GetPageSections(ctx, "home")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "b", Content: "2", DisplayOrder: int64Ptr(2)})
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "home", CreateSectionInput{SectionID: "a", Content: "1", DisplayOrder: int64Ptr(1)})
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "about", CreateSectionInput{SectionID: "intro", Content: "x"})
	require.NoError(t, err)

	// A cached empty result must not survive the writes above
	sections, err := s.GetPageSections(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, sections, 2)

	pages, err := s.ListAllPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages["home"], 2)
	assert.Equal(t, "a", pages["home"][0].SectionID)
	assert.Equal(t, "b", pages["home"][1].SectionID)
	assert.Len(t, pages["about"], 1)

	require.NoError(t, s.DeleteSection(ctx, "home", "a"))
	pages, err = s.ListAllPages(ctx)
	require.NoError(t, err)
	assert.Len(t, pages["home"], 1)

	err = s.DeleteSection(ctx, "home", "a")
	assert.True(t, errors.Is(err, ErrNotFound))

	unknown, err := s.GetPageSections(ctx, "../../etc")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}
