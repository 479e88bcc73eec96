// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/campus-site/internal/logging"
)

func TestRequestPath(t *testing.T) {
	var got string
	h := RequestPath(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = logging.RequestPath(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/pages/home?x=1", nil))

	if got != "/api/pages/home" {
		t.Errorf("request path = %q, want /api/pages/home", got)
	}
}
