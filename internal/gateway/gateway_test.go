package gateway_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdekunleBamz/ebook-store/internal/gateway"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ipfs/bafytest" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte("ebook bytes"))
	}))
	defer srv.Close()

	rc, size, err := gateway.New(srv.URL).Fetch(context.Background(), "bafytest")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer rc.Close()
	if size != int64(len("ebook bytes")) {
		t.Errorf("size = %d", size)
	}
	data, err := io.ReadAll(rc)
	if err != nil || string(data) != "ebook bytes" {
		t.Errorf("content = %q, %v", data, err)
	}
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, _, err := gateway.New(srv.URL).Fetch(context.Background(), "missing"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFetch_EmptyCID(t *testing.T) {
	if _, _, err := gateway.New("http://unused").Fetch(context.Background(), "  "); err == nil {
		t.Error("expected error for empty content identifier")
	}
}
