// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth       = "auth"
	EventCategoryPage       = "page"
	EventCategoryNews       = "news"
	EventCategoryMessage    = "message"
	EventCategoryMembership = "membership"
	EventCategoryMedia      = "media"
	EventCategorySystem     = "system"
)

// Event is an activity log entry.
type Event struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	AdminID   *int64          `json:"admin_id"`
	Metadata  json.RawMessage `json:"metadata"`
	IPAddress string          `json:"ip_address"`
	CreatedAt time.Time       `json:"created_at"`
}
