package platformgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

const tiktokVideoQueryPath = "%s/v2/video/query/?fields=id,title,view_count"

type tiktokQueryRequest struct {
	Filters tiktokQueryFilters `json:"filters"`
}

type tiktokQueryFilters struct {
	VideoIDs []string `json:"video_ids"`
}

type tiktokQueryResponse struct {
	Data tiktokQueryData `json:"data"`
}

type tiktokQueryData struct {
	Videos []tiktokVideo `json:"videos"`
}

type tiktokVideo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ViewCount int64  `json:"view_count"`
}

// TikTokFetcher queries the Display API video endpoint with the creator's
// OAuth access token. TikTok only exposes a creator's own video metrics, so a
// connected account is mandatory.
type TikTokFetcher struct {
	Endpoint string
	Client   *http.Client
	Logger   *slog.Logger
}

func (f TikTokFetcher) FetchViews(ctx context.Context, videoID string, accessToken string) (ports.ViewStats, bool) {
	payload, err := json.Marshal(tiktokQueryRequest{
		Filters: tiktokQueryFilters{VideoIDs: []string{videoID}},
	})
	if err != nil {
		return ports.ViewStats{}, false
	}

	endpoint := fmt.Sprintf(tiktokVideoQueryPath, f.Endpoint)
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	var data tiktokQueryResponse
	if err := httpJSON(ctx, f.Client, http.MethodPost, endpoint, headers, string(payload), &data); err != nil {
		f.logMiss(videoID, err)
		return ports.ViewStats{}, false
	}
	if len(data.Data.Videos) == 0 {
		f.logMiss(videoID, fmt.Errorf("video not found"))
		return ports.ViewStats{}, false
	}
	return ports.ViewStats{
		Views: data.Data.Videos[0].ViewCount,
		Title: data.Data.Videos[0].Title,
	}, true
}

func (f TikTokFetcher) logMiss(videoID string, err error) {
	if f.Logger == nil {
		return
	}
	f.Logger.Warn("tiktok view fetch unavailable",
		"event", "view_fetch_unavailable",
		"module", "clipping-rewards/platform-gateway",
		"layer", "adapter",
		"platform", "tiktok",
		"video_id", videoID,
		"error", err.Error(),
	)
}
