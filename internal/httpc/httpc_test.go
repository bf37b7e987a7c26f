package httpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func hostOf(s *httptest.Server) string {
	return strings.TrimPrefix(s.URL, "http://")
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" || r.URL.Query().Get("id") != "7" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("User-Agent") != "rosaserver-test" || r.Header.Get("X-Key") != "abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("X-Players", "12")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(5*time.Second, "rosaserver-test")
	resp, err := c.Get(context.Background(), "http", hostOf(srv), "/api/status?id=7", map[string]string{"X-Key": "abc"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.Status != 200 || resp.Body != "ok" || resp.Headers["X-Players"] != "12" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(r.Method + " " + r.Header.Get("Content-Type") + " " + string(b)))
	}))
	defer srv.Close()

	c := New(5*time.Second, "")
	resp, err := c.Post(context.Background(), "http", hostOf(srv), "/log", nil, `{"a":1}`, "application/json")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Status != 201 || resp.Body != `POST application/json {"a":1}` {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestDecodesCompressedBodies(t *testing.T) {
	const text = "the quick brown fox jumps over the lazy dog"
	var gz, zs bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write([]byte(text))
	gw.Close()
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write([]byte(text))
	zw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "zstd") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/gzip":
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(gz.Bytes())
		case "/zstd":
			w.Header().Set("Content-Encoding", "zstd")
			w.Write(zs.Bytes())
		case "/br":
			w.Header().Set("Content-Encoding", "br")
			w.Write([]byte{1, 2, 3})
		}
	}))
	defer srv.Close()

	c := New(5*time.Second, "")
	for _, path := range []string{"/gzip", "/zstd"} {
		resp, err := c.Get(context.Background(), "http", hostOf(srv), path, nil)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.Body != text {
			t.Fatalf("%s body = %q", path, resp.Body)
		}
		if _, ok := resp.Headers["Content-Encoding"]; ok {
			t.Fatalf("%s: encoding header kept after decoding", path)
		}
	}
	if _, err := c.Get(context.Background(), "http", hostOf(srv), "/br", nil); err == nil {
		t.Fatal("unknown encoding accepted")
	}
}

func TestTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(done)

	c := New(50*time.Millisecond, "")
	if _, err := c.Get(context.Background(), "http", hostOf(srv), "/", nil); err == nil {
		t.Fatal("request outlived its timeout")
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		scheme, host, path string
		want               string
		ok                 bool
	}{
		{"https", "example.com", "/a/b?c=d", "https://example.com/a/b?c=d", true},
		{"http", "127.0.0.1:8080", "", "http://127.0.0.1:8080/", true},
		{"ftp", "example.com", "/", "", false},
		{"http", "", "/", "", false},
	}
	for _, tt := range tests {
		got, err := buildURL(tt.scheme, tt.host, tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("buildURL(%q, %q, %q) = %q, %v", tt.scheme, tt.host, tt.path, got, err)
		}
	}
}
