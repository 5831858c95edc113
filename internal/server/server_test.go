package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/poimap/pkg/cache"
	"github.com/matzehuels/poimap/pkg/config"
	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/pipeline"
	"github.com/matzehuels/poimap/pkg/poi"
	"github.com/matzehuels/poimap/pkg/render/icons"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	iconDir := t.TempDir()
	for _, name := range []string{"HardDrive", "Motor"} {
		var buf bytes.Buffer
		if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(iconDir, name+icons.Ext), buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Map.Extent = []float64{0, 4000, 0, 2000}
	cfg.Map.DPI = 72
	cfg.Map.WidthInches = 2
	cfg.Paths.Icons = iconDir

	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
	t.Cleanup(func() { runner.Close() })
	return New(runner, pipeline.FromConfig(cfg), nil)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const validPOIs = `[{"id":"HD1","type":"E","x":1000,"y":1000,"img":"HardDrive",
	"items":[{"type":"Motor","count":2,"label":"x2"}],"points":12345}]`

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDPreserved(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestKinds(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/kinds", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var kinds []Kind
	if err := json.Unmarshal(rec.Body.Bytes(), &kinds); err != nil {
		t.Fatal(err)
	}
	if len(kinds) != len(poi.Kinds()) {
		t.Fatalf("got %d kinds, want %d", len(kinds), len(poi.Kinds()))
	}
	if kinds[0].Code != "A" || kinds[0].Layout != "actual" {
		t.Errorf("first kind = %+v", kinds[0])
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/render", validPOIs)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
	if rec.Header().Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", rec.Header().Get("X-Cache"))
	}

	again := do(t, s, http.MethodPost, "/v1/render", validPOIs)
	if again.Header().Get("X-Cache") != "hit" {
		t.Errorf("X-Cache = %q, want hit", again.Header().Get("X-Cache"))
	}
}

func TestRenderFormats(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		format string
		ctype  string
	}{
		{"svg", "image/svg+xml"},
		{"json", "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/render?format="+tt.format, validPOIs)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.ctype {
				t.Errorf("content type = %q, want %q", ct, tt.ctype)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"bad format", "/v1/render?format=gif", validPOIs, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad json", "/v1/render", `[{`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown kind", "/v1/render", `[{"id":"X","type":"Z","x":1,"y":1,"img":"HardDrive"}]`,
			http.StatusBadRequest, errors.ErrCodeInvalidPOI},
		{"missing icon", "/v1/render", `[{"id":"X","type":"K","x":1,"y":1,"img":"Nope"}]`,
			http.StatusUnprocessableEntity, errors.ErrCodeIconNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Code, tt.code)
			}
			if resp.RequestID == "" {
				t.Error("error response missing request id")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidPOI, http.StatusBadRequest},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeInvalidConfig, http.StatusBadRequest},
		{errors.ErrCodeUnknownKind, http.StatusBadRequest},
		{errors.ErrCodeIconNotFound, http.StatusUnprocessableEntity},
		{errors.ErrCodeSource, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestRenderMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/render", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
