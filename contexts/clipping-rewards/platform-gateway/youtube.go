package platformgateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

const (
	youtubeVideosPath       = "%s/videos?id=%s&part=statistics,snippet&key=%s"
	youtubeVideosBearerPath = "%s/videos?id=%s&part=statistics,snippet"
)

type youtubeVideoData struct {
	Items []youtubeVideoItem `json:"items"`
}

type youtubeVideoItem struct {
	ID      string         `json:"id"`
	Stats   youtubeStats   `json:"statistics"`
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubeStats struct {
	Views string `json:"viewCount"`
}

type youtubeSnippet struct {
	Title string `json:"title"`
}

// YouTubeFetcher reads public video statistics through the Data API. It
// authenticates with a server API key, so creators do not connect a YouTube
// account.
type YouTubeFetcher struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
	Logger   *slog.Logger
}

func (f YouTubeFetcher) FetchViews(ctx context.Context, videoID string, accessToken string) (ports.ViewStats, bool) {
	endpoint := fmt.Sprintf(youtubeVideosPath, f.Endpoint, url.QueryEscape(videoID), url.QueryEscape(f.APIKey))
	var headers map[string]string
	if accessToken != "" {
		// A caller-supplied OAuth bearer replaces the server api key.
		endpoint = fmt.Sprintf(youtubeVideosBearerPath, f.Endpoint, url.QueryEscape(videoID))
		headers = map[string]string{"Authorization": "Bearer " + accessToken}
	}
	var data youtubeVideoData
	if err := httpJSON(ctx, f.Client, http.MethodGet, endpoint, headers, "", &data); err != nil {
		f.logMiss(videoID, err)
		return ports.ViewStats{}, false
	}
	if len(data.Items) == 0 {
		f.logMiss(videoID, fmt.Errorf("video not found"))
		return ports.ViewStats{}, false
	}
	views, err := strconv.ParseInt(data.Items[0].Stats.Views, 10, 64)
	if err != nil {
		f.logMiss(videoID, err)
		return ports.ViewStats{}, false
	}
	return ports.ViewStats{
		Views: views,
		Title: data.Items[0].Snippet.Title,
	}, true
}

func (f YouTubeFetcher) logMiss(videoID string, err error) {
	if f.Logger == nil {
		return
	}
	f.Logger.Warn("youtube view fetch unavailable",
		"event", "view_fetch_unavailable",
		"module", "clipping-rewards/platform-gateway",
		"layer", "adapter",
		"platform", "youtube",
		"video_id", videoID,
		"error", err.Error(),
	)
}
