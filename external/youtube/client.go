package youtube

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-hub/internal/domain/media"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	maxBodyBytes   = 2 << 20
)

var errYouTubeUpstream = crerr.New("youtube upstream failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client calls the YouTube Data v3 search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logging.OrDefault(cfg.Logger).Named("youtube"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		PublishedAt  string                   `json:"publishedAt"`
		Title        string                   `json:"title"`
		Description  string                   `json:"description"`
		ChannelTitle string                   `json:"channelTitle"`
		Thumbnails   map[string]thumbnailItem `json:"thumbnails"`
	} `json:"snippet"`
}

func (c *Client) SearchVideos(ctx context.Context, query string, max int) ([]media.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: video query is required", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	values.Set("part", "snippet")
	values.Set("q", query)
	values.Set("type", "video")
	values.Set("maxResults", strconv.Itoa(max))
	values.Set("key", c.apiKey)
	fullURL := c.baseURL + "/search?" + values.Encode()

	var raw []byte
	err := c.breaker.Execute(func() error {
		var reqErr error
		raw, reqErr = c.get(ctx, fullURL)
		return reqErr
	}, func(err error) bool { return stderrors.Is(err, errYouTubeUpstream) })
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			return nil, fmt.Errorf("%w: video provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		c.logger.WarnContext(ctx, "youtube search failed", "query", query, "error", err)
		return nil, err
	}

	var payload searchResponse
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.Wrap(err, "decode youtube payload")
	}

	out := make([]media.Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID.VideoID == "" {
			continue
		}
		video := media.Video{
			ID:           item.ID.VideoID,
			Title:        strings.TrimSpace(item.Snippet.Title),
			Description:  strings.TrimSpace(item.Snippet.Description),
			ChannelTitle: strings.TrimSpace(item.Snippet.ChannelTitle),
			ThumbnailURL: thumbnail(item.Snippet.Thumbnails),
		}
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(item.Snippet.PublishedAt)); err == nil {
			video.PublishedAt = ts.UTC()
		}
		out = append(out, video)
	}
	return out, nil
}

type thumbnailItem struct {
	URL string `json:"url"`
}

func thumbnail(thumbs map[string]thumbnailItem) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %s", errYouTubeUpstream, c.redact(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errYouTubeUpstream, err)
	}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status=%d", errYouTubeUpstream, resp.StatusCode)
	default:
		return nil, fmt.Errorf("youtube status=%d body=%s", resp.StatusCode, c.redact(string(raw)))
	}
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}
