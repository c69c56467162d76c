package platformgateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

const facebookVideoPath = "%s/%s?fields=views,title"

type facebookVideoData struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// FacebookFetcher reads video view counts from the Graph API with the page
// access token of the creator's connected account.
type FacebookFetcher struct {
	Endpoint string
	Client   *http.Client
	Logger   *slog.Logger
}

func (f FacebookFetcher) FetchViews(ctx context.Context, videoID string, accessToken string) (ports.ViewStats, bool) {
	endpoint := fmt.Sprintf(facebookVideoPath, f.Endpoint, url.PathEscape(videoID))
	// The token travels in the authorization header, never in the URL, so it
	// cannot surface through transport errors.
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	var data facebookVideoData
	if err := httpJSON(ctx, f.Client, http.MethodGet, endpoint, headers, "", &data); err != nil {
		f.logMiss(videoID, err)
		return ports.ViewStats{}, false
	}
	if data.ID == "" {
		f.logMiss(videoID, fmt.Errorf("video not found"))
		return ports.ViewStats{}, false
	}
	return ports.ViewStats{
		Views: data.Views,
		Title: data.Title,
	}, true
}

func (f FacebookFetcher) logMiss(videoID string, err error) {
	if f.Logger == nil {
		return
	}
	f.Logger.Warn("facebook view fetch unavailable",
		"event", "view_fetch_unavailable",
		"module", "clipping-rewards/platform-gateway",
		"layer", "adapter",
		"platform", "facebook",
		"video_id", videoID,
		"error", err.Error(),
	)
}
