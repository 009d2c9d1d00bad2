package mediastore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveURL_AbsolutePassthrough(t *testing.T) {
	c := NewClient("http://unused.invalid", "key")
	for _, ref := range []string{"", "https://cdn.example.com/v.mp4", "http://host/x"} {
		got, err := c.ResolveURL(context.Background(), ref)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", ref, err)
		}
		if got != ref {
			t.Errorf("expected %q passed through, got %q", ref, got)
		}
	}
}

func TestResolveURL_ObjectKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/objects/url" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "uploads/v.mp4" {
			t.Errorf("unexpected key %q", r.URL.Query().Get("key"))
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url": "https://cdn.example.com/uploads/v.mp4"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	got, err := c.ResolveURL(context.Background(), "uploads/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://cdn.example.com/uploads/v.mp4" {
		t.Errorf("expected resolved url, got %q", got)
	}
}

func TestResolveURL_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	_, err := c.ResolveURL(context.Background(), "uploads/x.png")
	if err == nil {
		t.Fatal("expected error")
	}
	var retryErr *RetryableError
	if !errors.As(err, &retryErr) {
		t.Errorf("expected retryable error, got %T: %v", err, err)
	}
}

func TestResolveURL_NotFoundIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such object", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	_, err := c.ResolveURL(context.Background(), "uploads/gone.png")
	if err == nil {
		t.Fatal("expected error")
	}
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		t.Errorf("expected non-retryable error for 404, got %v", err)
	}
}
