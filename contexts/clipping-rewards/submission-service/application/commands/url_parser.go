package commands

import (
	"net/url"
	"strings"

	domainerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
)

// extractVideoID pulls the platform-native video identifier out of the
// submitted URL. Unrecognized shapes reject at intake rather than failing
// later inside the reconciliation loop.
func extractVideoID(platform string, rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", domainerrors.ErrInvalidSubmissionURL
	}
	host := strings.ToLower(strings.TrimSpace(parsed.Host))
	segments := splitPathSegments(parsed.Path)

	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "youtube":
		return parseYouTube(host, parsed.Query().Get("v"), segments)
	case "tiktok":
		return parseTikTok(host, segments)
	case "facebook":
		return parseFacebook(host, parsed.Query().Get("v"), segments)
	default:
		return "", domainerrors.ErrUnsupportedPlatform
	}
}

func parseYouTube(host string, queryVideoID string, segments []string) (string, error) {
	if strings.Contains(host, "youtu.be") && len(segments) >= 1 {
		return segments[0], nil
	}
	if strings.Contains(host, "youtube.com") {
		if strings.TrimSpace(queryVideoID) != "" {
			return strings.TrimSpace(queryVideoID), nil
		}
		if len(segments) >= 2 && segments[0] == "shorts" {
			return segments[1], nil
		}
	}
	return "", domainerrors.ErrInvalidSubmissionURL
}

func parseTikTok(host string, segments []string) (string, error) {
	if strings.Contains(host, "vm.tiktok.com") && len(segments) >= 1 {
		return segments[0], nil
	}
	if strings.Contains(host, "tiktok.com") {
		if len(segments) >= 3 && strings.HasPrefix(segments[0], "@") && segments[1] == "video" {
			return segments[2], nil
		}
	}
	return "", domainerrors.ErrInvalidSubmissionURL
}

func parseFacebook(host string, queryVideoID string, segments []string) (string, error) {
	if strings.Contains(host, "fb.watch") && len(segments) >= 1 {
		return segments[0], nil
	}
	if strings.Contains(host, "facebook.com") {
		if len(segments) >= 1 && segments[0] == "watch" && strings.TrimSpace(queryVideoID) != "" {
			return strings.TrimSpace(queryVideoID), nil
		}
		if len(segments) >= 3 && segments[1] == "videos" {
			return segments[2], nil
		}
		if len(segments) >= 2 && segments[0] == "reel" {
			return segments[1], nil
		}
	}
	return "", domainerrors.ErrInvalidSubmissionURL
}

func splitPathSegments(rawPath string) []string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(rawPath), "/"), "/")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
