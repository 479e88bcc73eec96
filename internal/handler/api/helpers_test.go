// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/campus-site/internal/cache"
	"github.com/olegiv/campus-site/internal/imaging"
	"github.com/olegiv/campus-site/internal/middleware"
	"github.com/olegiv/campus-site/internal/service"
	"github.com/olegiv/campus-site/internal/session"
	"github.com/olegiv/campus-site/internal/testutil"
)

const (
	testUsername = "admin"
	testPassword = "secret123"
)

// testAPI is a fully wired /api router over a temporary database.
type testAPI struct {
	t         *testing.T
	db        *sql.DB
	handler   http.Handler
	uploadDir string
}

// envelope mirrors Response with the payload left undecoded.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	testutil.TestAdmin(t, db, testUsername, testPassword)

	logger := testutil.TestLoggerSilent()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })

	uploadDir := t.TempDir()
	const maxUpload = 1 << 20

	svc := Services{
		Pages:       service.NewPageService(db, c, time.Minute),
		News:        service.NewNewsService(db),
		Messages:    service.NewMessageService(db),
		Memberships: service.NewMembershipService(db),
		Media: service.NewMediaService(db, c, imaging.NewProcessor(uploadDir), service.MediaConfig{
			UploadURLPrefix: "/uploads",
			MaxUploadSize:   maxUpload,
			CacheTTL:        time.Minute,
		}, logger),
		Auth:   service.NewAuthService(db, logger),
		Events: service.NewEventService(db, logger),
	}

	sm := session.New(db, true)
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100})
	t.Cleanup(lp.Stop)

	h := NewHandler(svc, sm, lp, Config{MaxUploadSize: maxUpload}, logger)

	root := chi.NewRouter()
	root.Use(sm.LoadAndSave)
	root.Mount("/api", h.Routes(middleware.NewRateLimiter(100, 100)))

	return &testAPI{t: t, db: db, handler: root, uploadDir: uploadDir}
}

// do sends a request with an optional JSON body and session cookies.
func (a *testAPI) do(method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.RemoteAddr = "192.0.2.10:40000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// login signs in as the test admin and returns the session cookies.
func (a *testAPI) login() []*http.Cookie {
	a.t.Helper()

	rr := a.do(http.MethodPost, "/api/auth/login",
		map[string]string{"username": testUsername, "password": testPassword}, nil)
	if rr.Code != http.StatusOK {
		a.t.Fatalf("login status = %d, body = %s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		a.t.Fatal("login set no session cookie")
	}
	return cookies
}

// upload posts a multipart image to /api/media/upload/{uploadType}.
func (a *testAPI) upload(uploadType, filename string, data []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		a.t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		a.t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		a.t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload/"+uploadType, &buf)
	req.RemoteAddr = "192.0.2.10:40000"
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// decode parses the envelope of rr and, when dst is non-nil, its data.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rr.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, env.Data)
		}
	}
	return env
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}
