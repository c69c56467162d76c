package platformgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

// httpJSON issues one request against a platform API and decodes the JSON
// answer. Callers pass credentials through the header map; they are never
// echoed into the returned error.
func httpJSON(
	ctx context.Context,
	client *http.Client,
	method string,
	endpoint string,
	headers map[string]string,
	reqBody string,
	respData any,
) error {
	var body io.Reader
	if reqBody != "" {
		body = strings.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return sanitizeTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("platform answered status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(respData); err != nil {
		return fmt.Errorf("platform response decode failed: %w", err)
	}
	return nil
}

// sanitizeTransportErr strips the request URL from transport errors before
// callers log them. url.Error embeds the full URL, and platform query strings
// carry API keys.
func sanitizeTransportErr(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("platform request failed: %s %s: %w", urlErr.Op, redactURL(urlErr.URL), urlErr.Err)
	}
	return fmt.Errorf("platform request failed: %w", err)
}

func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "(unparsable url)"
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

func defaultClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
