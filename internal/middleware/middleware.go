// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication, request
// throttling and response hardening of the campus API.
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// errorBody mirrors the API envelope for failures raised before a handler runs.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSONError writes a failure envelope with the given status.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Message: message})
}

// ClientIP returns the client address of r without its port. Proxy headers
// are expected to have been folded into RemoteAddr by chi's RealIP.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
