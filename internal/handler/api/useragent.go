// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/mileusna/useragent"
)

// clientInfo is the parsed user agent attached to login events.
type clientInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

// parseUserAgent extracts browser, OS, and device type from a user agent string.
func parseUserAgent(uaString string) clientInfo {
	ua := useragent.Parse(uaString)

	result := clientInfo{
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if result.Browser == "" {
		result.Browser = "Unknown"
	}
	if result.OS == "" {
		result.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		result.DeviceType = "mobile"
	case ua.Tablet:
		result.DeviceType = "tablet"
	case ua.Bot:
		result.DeviceType = "bot"
	default:
		result.DeviceType = "desktop"
	}

	return result
}

// metadata returns the fields stored with an event.
func (c clientInfo) metadata() map[string]any {
	return map[string]any{
		"browser": c.Browser,
		"os":      c.OS,
		"device":  c.DeviceType,
	}
}
