package platformgateway

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestYouTubeFetchViews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "server-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Query().Get("id") != "abc123DEF45" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"abc123DEF45","statistics":{"viewCount":"15500"},"snippet":{"title":"clip one"}}]}`))
	}))
	defer server.Close()

	registry := NewRegistry(Config{
		YouTubeEndpoint: server.URL,
		YouTubeAPIKey:   "server-key",
	})

	stats, ok := registry.FetchViews(context.Background(), "youtube", "abc123DEF45", "")
	if !ok {
		t.Fatal("expected fetch to succeed")
	}
	if stats.Views != 15500 {
		t.Fatalf("views = %d, want 15500", stats.Views)
	}
	if stats.Title != "clip one" {
		t.Fatalf("title = %q, want %q", stats.Title, "clip one")
	}
}

func TestYouTubeFetchViewsEmptyItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	registry := NewRegistry(Config{YouTubeEndpoint: server.URL, YouTubeAPIKey: "k"})
	if _, ok := registry.FetchViews(context.Background(), "youtube", "missing", ""); ok {
		t.Fatal("expected fetch to report unavailable for empty item list")
	}
}

func TestTikTokFetchViewsSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"videos":[{"id":"7312345678901234567","title":"dance clip","view_count":98000}]}}`))
	}))
	defer server.Close()

	registry := NewRegistry(Config{TikTokEndpoint: server.URL})
	stats, ok := registry.FetchViews(context.Background(), "tiktok", "7312345678901234567", "tok-secret")
	if !ok {
		t.Fatal("expected fetch to succeed")
	}
	if stats.Views != 98000 {
		t.Fatalf("views = %d, want 98000", stats.Views)
	}
	if gotAuth != "Bearer tok-secret" {
		t.Fatalf("authorization header = %q, want bearer token", gotAuth)
	}
}

func TestFacebookFetchViewsSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.RawQuery != "fields=views,title" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"102030405060","title":"reel","views":4200}`))
	}))
	defer server.Close()

	registry := NewRegistry(Config{FacebookEndpoint: server.URL})
	stats, ok := registry.FetchViews(context.Background(), "facebook", "102030405060", "page-token")
	if !ok {
		t.Fatal("expected fetch to succeed")
	}
	if stats.Views != 4200 {
		t.Fatalf("views = %d, want 4200", stats.Views)
	}
	if gotAuth != "Bearer page-token" {
		t.Fatalf("authorization header = %q, want bearer token", gotAuth)
	}
}

func TestTransportFailureKeepsCredentialsOutOfLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// Nothing listens on port 1; every fetch fails in the transport and the
	// resulting error must not carry the credential back into the log line.
	registry := NewRegistry(Config{
		YouTubeEndpoint:  "http://127.0.0.1:1",
		TikTokEndpoint:   "http://127.0.0.1:1",
		FacebookEndpoint: "http://127.0.0.1:1",
		YouTubeAPIKey:    "server-api-key",
		Logger:           logger,
	})

	if _, ok := registry.FetchViews(context.Background(), "youtube", "abc123", ""); ok {
		t.Fatal("expected youtube fetch to fail")
	}
	if _, ok := registry.FetchViews(context.Background(), "tiktok", "7312345678901234567", "tiktok-user-token"); ok {
		t.Fatal("expected tiktok fetch to fail")
	}
	if _, ok := registry.FetchViews(context.Background(), "facebook", "102030405060", "facebook-page-token"); ok {
		t.Fatal("expected facebook fetch to fail")
	}

	logged := buf.String()
	if logged == "" {
		t.Fatal("expected fetch misses to be logged")
	}
	for _, secret := range []string{"server-api-key", "tiktok-user-token", "facebook-page-token"} {
		if strings.Contains(logged, secret) {
			t.Fatalf("log output leaked credential %q:\n%s", secret, logged)
		}
	}
}

func TestFetchViewsServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	registry := NewRegistry(Config{YouTubeEndpoint: server.URL, YouTubeAPIKey: "k"})
	if _, ok := registry.FetchViews(context.Background(), "youtube", "abc", ""); ok {
		t.Fatal("expected 5xx to be reported as unavailable")
	}
}

func TestRegistryCapabilities(t *testing.T) {
	registry := NewRegistry(Config{})

	if !registry.Supported("YouTube") {
		t.Fatal("youtube should be supported case-insensitively")
	}
	if registry.Supported("twitch") {
		t.Fatal("twitch should not be supported")
	}
	if registry.RequiresUserCredential("youtube") {
		t.Fatal("youtube uses the server api key, no user credential")
	}
	if !registry.RequiresUserCredential("tiktok") {
		t.Fatal("tiktok requires a connected account")
	}
	if !registry.RequiresUserCredential("facebook") {
		t.Fatal("facebook requires a connected account")
	}
	if _, ok := registry.FetchViews(context.Background(), "twitch", "x", ""); ok {
		t.Fatal("unsupported platform must report unavailable")
	}
}
