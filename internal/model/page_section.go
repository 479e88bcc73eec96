// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PageSection is one editable block of a static page, addressed by
// (PageName, SectionID).
type PageSection struct {
	ID           int64     `json:"id"`
	PageName     string    `json:"page_name"`
	SectionID    string    `json:"section_id"`
	SectionTitle *string   `json:"section_title"`
	Content      string    `json:"content"`
	ContentType  string    `json:"content_type"`
	DisplayOrder int64     `json:"display_order"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SectionContent is the compact form served to the public site, keyed by
// section id.
type SectionContent struct {
	Title   *string `json:"title"`
	Content string  `json:"content"`
	Type    string  `json:"type"`
}

// BulkUpdateResult reports how many items a bulk update processed and how
// many existing sections it changed.
type BulkUpdateResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}
