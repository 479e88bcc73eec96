// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/olegiv/campus-site/internal/model"
)

func TestBulkUpdate_MissingSectionIsSkipped(t *testing.T) {
	a := newTestAPI(t)
	cookies := a.login()

	rr := a.do(http.MethodPut, "/api/pages/home/bulk", map[string]any{
		"sections": []map[string]any{
			{"section_id": "missing_section", "content": "ignored"},
		},
	}, cookies)
	assertStatus(t, rr, http.StatusOK)

	var result model.BulkUpdateResult
	env := decode(t, rr, &result)
	if !env.Success {
		t.Error("success = false")
	}
	if result.Processed != 1 || result.Updated != 0 {
		t.Errorf("result = %+v, want processed 1 updated 0", result)
	}

	// the skipped section must not have been created
	assertStatus(t, a.do(http.MethodGet, "/api/pages/home/missing_section", nil, nil), http.StatusNotFound)
}

func TestBulkUpdate_UpdatesExisting(t *testing.T) {
	a := newTestAPI(t)
	cookies := a.login()

	for _, id := range []string{"intro", "mission"} {
		rr := a.do(http.MethodPost, "/api/pages/about", map[string]any{
			"section_id": id, "content": "old " + id,
		}, cookies)
		assertStatus(t, rr, http.StatusCreated)
	}

	rr := a.do(http.MethodPut, "/api/pages/about/bulk", map[string]any{
		"sections": []map[string]any{
			{"section_id": "intro", "content": "new intro"},
			{"section_id": "mission", "content": "new mission", "section_title": "Our mission"},
			{"section_id": "ghost", "content": "nope"},
		},
	}, cookies)
	assertStatus(t, rr, http.StatusOK)

	var result model.BulkUpdateResult
	decode(t, rr, &result)
	if result.Processed != 3 || result.Updated != 2 {
		t.Errorf("result = %+v, want processed 3 updated 2", result)
	}

	rr = a.do(http.MethodGet, "/api/pages/about", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var sections map[string]model.SectionContent
	decode(t, rr, &sections)
	if sections["intro"].Content != "new intro" {
		t.Errorf("intro = %+v", sections["intro"])
	}
	if got := sections["mission"].Title; got == nil || *got != "Our mission" {
		t.Errorf("mission title = %v", got)
	}
}

func TestBulkUpdate_RequiresSessionAndSections(t *testing.T) {
	a := newTestAPI(t)

	body := map[string]any{"sections": []map[string]any{{"section_id": "x", "content": "y"}}}
	assertStatus(t, a.do(http.MethodPut, "/api/pages/home/bulk", body, nil), http.StatusUnauthorized)

	cookies := a.login()
	rr := a.do(http.MethodPut, "/api/pages/home/bulk", map[string]any{"sections": []any{}}, cookies)
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestSectionLifecycle(t *testing.T) {
	a := newTestAPI(t)
	cookies := a.login()

	rr := a.do(http.MethodPost, "/api/pages/home", map[string]any{
		"section_id": "hero_text", "content": "Welcome",
	}, cookies)
	assertStatus(t, rr, http.StatusCreated)
	var first model.PageSection
	decode(t, rr, &first)
	if first.DisplayOrder != 1 || first.ContentType != model.ContentTypeText {
		t.Errorf("first = %+v", first)
	}

	rr = a.do(http.MethodPost, "/api/pages/home", map[string]any{
		"section_id": "footer", "content": "<p>Bye</p>", "content_type": "html",
	}, cookies)
	assertStatus(t, rr, http.StatusCreated)
	var second model.PageSection
	decode(t, rr, &second)
	if second.DisplayOrder != 2 {
		t.Errorf("second display_order = %d, want 2", second.DisplayOrder)
	}

	rr = a.do(http.MethodPost, "/api/pages/home", map[string]any{
		"section_id": "footer", "content": "dup",
	}, cookies)
	assertStatus(t, rr, http.StatusBadRequest)
	if env := decode(t, rr, nil); env.Message != "Section already exists" {
		t.Errorf("message = %q", env.Message)
	}

	rr = a.do(http.MethodPut, "/api/pages/home/hero_text", map[string]any{"content": "Hello"}, cookies)
	assertStatus(t, rr, http.StatusOK)

	rr = a.do(http.MethodGet, "/api/pages/home/hero_text", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var got model.PageSection
	decode(t, rr, &got)
	if got.Content != "Hello" {
		t.Errorf("content = %q, want Hello", got.Content)
	}

	rr = a.do(http.MethodGet, "/api/pages", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var pages map[string][]model.PageSection
	decode(t, rr, &pages)
	if len(pages["home"]) != 2 {
		t.Errorf("home has %d sections, want 2", len(pages["home"]))
	}

	assertStatus(t, a.do(http.MethodDelete, "/api/pages/home/hero_text", nil, cookies), http.StatusOK)
	assertStatus(t, a.do(http.MethodDelete, "/api/pages/home/hero_text", nil, cookies), http.StatusNotFound)
	assertStatus(t, a.do(http.MethodPut, "/api/pages/home/hero_text", map[string]any{"content": "x"}, cookies), http.StatusNotFound)
}

func TestGetPage_UnknownIsEmptyObject(t *testing.T) {
	a := newTestAPI(t)

	rr := a.do(http.MethodGet, "/api/pages/nowhere", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	env := decode(t, rr, nil)
	if string(env.Data) != "{}" {
		t.Errorf("data = %s, want {}", env.Data)
	}
}
