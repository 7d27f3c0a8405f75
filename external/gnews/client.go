package gnews

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
	defaultBaseURL = "https://gnews.io/api/v4"
	maxBodyBytes   = 2 << 20
)

var errGNewsUpstream = crerr.New("gnews upstream failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client searches English language articles on GNews.
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
		logger:     logging.OrDefault(cfg.Logger).Named("gnews"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

type searchResponse struct {
	TotalArticles int           `json:"totalArticles"`
	Articles      []articleItem `json:"articles"`
}

type articleItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

// SearchNews expects query to be cleaned already; spaces are sent as '+'.
func (c *Client) SearchNews(ctx context.Context, query string, max int) ([]media.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: news query is required", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("lang", "en")
	values.Set("max", strconv.Itoa(max))
	values.Set("apikey", c.apiKey)
	fullURL := c.baseURL + "/search?" + values.Encode()

	var raw []byte
	err := c.breaker.Execute(func() error {
		var reqErr error
		raw, reqErr = c.get(ctx, fullURL)
		return reqErr
	}, func(err error) bool { return stderrors.Is(err, errGNewsUpstream) })
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			return nil, fmt.Errorf("%w: news provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		c.logger.WarnContext(ctx, "gnews search failed", "query", query, "error", err)
		return nil, err
	}

	var payload searchResponse
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.Wrap(err, "decode gnews payload")
	}

	out := make([]media.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		article := media.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			Content:     strings.TrimSpace(item.Content),
			URL:         strings.TrimSpace(item.URL),
			ImageURL:    strings.TrimSpace(item.Image),
			SourceName:  strings.TrimSpace(item.Source.Name),
			SourceURL:   strings.TrimSpace(item.Source.URL),
		}
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(item.PublishedAt)); err == nil {
			article.PublishedAt = ts.UTC()
		}
		out = append(out, article)
	}
	return out, nil
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
		return nil, fmt.Errorf("%w: send request: %s", errGNewsUpstream, c.redact(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errGNewsUpstream, err)
	}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status=%d", errGNewsUpstream, resp.StatusCode)
	default:
		return nil, fmt.Errorf("gnews status=%d body=%s", resp.StatusCode, c.redact(string(raw)))
	}
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}
