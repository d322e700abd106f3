package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// GoogleClient calls the public Google Translate endpoint used by browser
// extensions. It needs no key but is rate limited.
type GoogleClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewGoogleClient(endpoint string, timeout time.Duration) *GoogleClient {
	if endpoint == "" {
		endpoint = defaultGoogleURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *GoogleClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	out, err := parseGoogleResponse(body)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("empty response from google translate")
	}
	return out, nil
}

// parseGoogleResponse concatenates the translated segments of a gtx answer,
// shaped [[["translated","original",...],...],...].
func parseGoogleResponse(body []byte) (string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(top) == 0 {
		return "", fmt.Errorf("decode response: empty array")
	}
	var segments [][]any
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}
	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func (c *GoogleClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
