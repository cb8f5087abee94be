package search

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/zeromicro/go-zero/core/logx"
)

// DefaultTavilyURL is the Tavily REST endpoint root.
const DefaultTavilyURL = "https://api.tavily.com"

// TavilyConfig holds Tavily client settings.
type TavilyConfig struct {
	APIKey  string        `json:",optional"`
	BaseURL string        `json:",optional"`
	Timeout time.Duration `json:",default=15s"`
}

// TavilyClient is a Searcher backed by the Tavily search API.
type TavilyClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *client.Client
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title string  `json:"title"`
		URL   string  `json:"url"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// NewTavilyClient creates a Tavily client.
func NewTavilyClient(cfg TavilyConfig) (*TavilyClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tavily API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultTavilyURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c, err := client.NewClient(
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		client.WithDialTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	return &TavilyClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  c,
	}, nil
}

// Search posts the query to /search using basic search depth.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 2
	}
	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, resp := protocol.AcquireRequest(), protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.baseURL + "/search")
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	if err := c.client.DoTimeout(ctx, req, resp, c.timeout); err != nil {
		logx.WithContext(ctx).Errorw("tavily search failed",
			logx.Field("query", query), logx.Field("error", err.Error()))
		return nil, &ErrUnavailable{Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, &ErrUnavailable{
			StatusCode: status,
			Err:        errors.New(truncate(string(resp.Body()), 200)),
		}
	}

	var out tavilyResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, &ErrUnavailable{StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}

	results := make([]Result, 0, len(out.Results))
	for _, r := range out.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Score: r.Score})
	}
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
