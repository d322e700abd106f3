package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseGoogleResponse(t *testing.T) {
	body := []byte(`[[["こんにちは。","Hello.",null,null,10],["世界。","World.",null,null,10]],null,"en"]`)
	got, err := parseGoogleResponse(body)
	if err != nil {
		t.Fatal(err)
	}
	if got != "こんにちは。世界。" {
		t.Fatalf("got %q", got)
	}
}

func TestParseGoogleResponseMalformed(t *testing.T) {
	for _, body := range []string{`{}`, `[]`, `["x"]`, `not json`} {
		if _, err := parseGoogleResponse([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}

func TestGoogleClientTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sl") != "en" || q.Get("tl") != "ja" || q.Get("q") != "Hello." || q.Get("client") != "gtx" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[[["こんにちは。","Hello."]]]`))
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, time.Second)
	defer c.Close()
	out, err := c.Translate(context.Background(), "Hello.", "en", "ja")
	if err != nil {
		t.Fatal(err)
	}
	if out != "こんにちは。" {
		t.Fatalf("got %q", out)
	}
}

func TestGoogleClientRateLimitIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	_, err := NewGoogleClient(srv.URL, time.Second).Translate(context.Background(), "Hello.", "en", "ja")
	if !IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}
