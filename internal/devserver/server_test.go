package devserver

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	indexBody     = "<html><head><title>TableMoins</title></head><body>hello</body></html>"
	docsIndexBody = "<html><body>docs</body></html>"
)

func newTestServer(t *testing.T) (*Server, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":      indexBody,
		"style.css":       "body { margin: 0 }",
		"docs/index.html": docsIndexBody,
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	var out bytes.Buffer
	cfg := Config{Port: 0, Dir: dir, OpenBrowser: false}
	return New(cfg, &out), &out
}

func TestHandlerNoCacheHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	wantHeaders := map[string]string{
		"Cache-Control": "no-cache, no-store, must-revalidate",
		"Pragma":        "no-cache",
		"Expires":       "0",
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{
			name:       "Existing file",
			path:       "/style.css",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Root",
			path:       "/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Index by name",
			path:       "/index.html",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing file",
			path:       "/missing.html",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			for name, want := range wantHeaders {
				values := rec.Result().Header.Values(name)
				if len(values) != 1 {
					t.Errorf("header %s has %d values, want exactly 1", name, len(values))
					continue
				}
				if values[0] != want {
					t.Errorf("header %s = %q, want %q", name, values[0], want)
				}
			}
		})
	}
}

func TestHandlerServesFileBytes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantBody string
	}{
		{
			name:     "Root serves the index",
			path:     "/",
			wantBody: indexBody,
		},
		{
			name:     "Index by name is served, not redirected",
			path:     "/index.html",
			wantBody: indexBody,
		},
		{
			name:     "Nested index by name is served, not redirected",
			path:     "/docs/index.html",
			wantBody: docsIndexBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want the file contents unmodified", got)
			}
		})
	}
}

func TestHandlerLogging(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantMarker string
		wantInLine string
	}{
		{
			name:       "Index request logs success",
			method:     "GET",
			path:       "/index.html",
			wantMarker: "✅",
			wantInLine: "GET /index.html",
		},
		{
			name:       "Missing file logs not-found",
			method:     "GET",
			path:       "/missing.html",
			wantMarker: "❌",
			wantInLine: "404",
		},
		{
			name:       "Asset request logs as other",
			method:     "GET",
			path:       "/style.css",
			wantMarker: "📄",
			wantInLine: "GET /style.css",
		},
		{
			name:       "Post request logs as other",
			method:     "POST",
			path:       "/style.css",
			wantMarker: "📄",
			wantInLine: "POST /style.css",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, out := newTestServer(t)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			line := out.String()
			if !strings.Contains(line, tt.wantMarker) {
				t.Errorf("log %q should contain marker %q", line, tt.wantMarker)
			}
			if !strings.Contains(line, tt.wantInLine) {
				t.Errorf("log %q should contain %q", line, tt.wantInLine)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, out := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	// Give the listener a moment to come up before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() after cancel = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}

	if !strings.Contains(out.String(), "TableMoins Website Server") {
		t.Error("startup banner was not printed")
	}
	if !strings.Contains(out.String(), "Serving directory:") {
		t.Error("served directory was not printed")
	}
	if !strings.Contains(out.String(), "Au revoir!") {
		t.Error("farewell was not printed on shutdown")
	}
}

func TestRunFailsWhenPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	dir := t.TempDir()
	cfg := Config{Port: port, Dir: dir, OpenBrowser: false}
	srv := New(cfg, &bytes.Buffer{})

	err = srv.Run(context.Background())
	if err == nil {
		t.Fatal("Run() should fail when the port is already bound")
	}
	if !strings.Contains(err.Error(), fmt.Sprintf(":%d", port)) {
		t.Errorf("error %q should name the address", err)
	}
}
