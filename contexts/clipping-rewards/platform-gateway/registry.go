package platformgateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

const (
	PlatformYouTube  = "youtube"
	PlatformTikTok   = "tiktok"
	PlatformFacebook = "facebook"

	defaultYouTubeEndpoint  = "https://www.googleapis.com/youtube/v3"
	defaultTikTokEndpoint   = "https://open.tiktokapis.com"
	defaultFacebookEndpoint = "https://graph.facebook.com/v19.0"
)

// Config carries endpoint overrides for tests and the credentials the
// gateway authenticates with server-side.
type Config struct {
	YouTubeEndpoint  string
	TikTokEndpoint   string
	FacebookEndpoint string
	YouTubeAPIKey    string
	Timeout          time.Duration
	Client           *http.Client
	Logger           *slog.Logger
}

type fetcher interface {
	FetchViews(ctx context.Context, videoID string, accessToken string) (ports.ViewStats, bool)
}

// Registry dispatches view fetches to the per-platform fetcher and answers
// platform capability questions for intake validation.
type Registry struct {
	fetchers        map[string]fetcher
	needsCredential map[string]bool
}

func NewRegistry(cfg Config) *Registry {
	if cfg.YouTubeEndpoint == "" {
		cfg.YouTubeEndpoint = defaultYouTubeEndpoint
	}
	if cfg.TikTokEndpoint == "" {
		cfg.TikTokEndpoint = defaultTikTokEndpoint
	}
	if cfg.FacebookEndpoint == "" {
		cfg.FacebookEndpoint = defaultFacebookEndpoint
	}
	client := cfg.Client
	if client == nil {
		client = defaultClient(cfg.Timeout)
	}

	return &Registry{
		fetchers: map[string]fetcher{
			PlatformYouTube: YouTubeFetcher{
				Endpoint: strings.TrimRight(cfg.YouTubeEndpoint, "/"),
				APIKey:   cfg.YouTubeAPIKey,
				Client:   client,
				Logger:   cfg.Logger,
			},
			PlatformTikTok: TikTokFetcher{
				Endpoint: strings.TrimRight(cfg.TikTokEndpoint, "/"),
				Client:   client,
				Logger:   cfg.Logger,
			},
			PlatformFacebook: FacebookFetcher{
				Endpoint: strings.TrimRight(cfg.FacebookEndpoint, "/"),
				Client:   client,
				Logger:   cfg.Logger,
			},
		},
		needsCredential: map[string]bool{
			PlatformYouTube:  false,
			PlatformTikTok:   true,
			PlatformFacebook: true,
		},
	}
}

func (r *Registry) Supported(platform string) bool {
	_, ok := r.fetchers[normalizePlatform(platform)]
	return ok
}

func (r *Registry) RequiresUserCredential(platform string) bool {
	return r.needsCredential[normalizePlatform(platform)]
}

func (r *Registry) FetchViews(ctx context.Context, platform string, videoID string, accessToken string) (ports.ViewStats, bool) {
	impl, ok := r.fetchers[normalizePlatform(platform)]
	if !ok {
		return ports.ViewStats{}, false
	}
	return impl.FetchViews(ctx, videoID, accessToken)
}

func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
