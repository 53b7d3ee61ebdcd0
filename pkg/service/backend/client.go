package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

// DefaultTimeout is applied to every outbound call unless overridden
const DefaultTimeout = 15 * time.Second

const (
	pathLogin        = "/api/auth/login"
	pathSites        = "/api/sites"
	pathDwell        = "/api/analytics/dwell"
	pathFootfall     = "/api/analytics/footfall"
	pathOccupancy    = "/api/analytics/occupancy"
	pathDemographics = "/api/analytics/demographics"
	pathEntryExit    = "/api/analytics/entry-exit"
)

// Client is the REST client of the crowd-monitoring backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.Backend = (*Client)(nil)

// Option customises the client
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a backend client for baseURL, e.g. https://cms.example.com
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, goerr.New("backend base URL is empty")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, goerr.Wrap(err, "invalid backend base URL", goerr.V("url", baseURL))
	}

	c := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login implements interfaces.Backend
func (c *Client) Login(ctx context.Context, identity, secret string) (string, bool, error) {
	resp, err := c.send(ctx, http.MethodPost, pathLogin, "", loginRequest{Email: identity, Password: secret})
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ctxlog.From(ctx).Info("login rejected", "status", resp.StatusCode)
		return "", false, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, goerr.Wrap(err, "failed to read login response", goerr.T(model.ErrTagTransport))
	}

	var body loginResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return "", false, goerr.Wrap(err, "failed to decode login response",
			goerr.T(model.ErrTagDecode),
			goerr.V("body", truncate(data)))
	}
	return body.Token, true, nil
}

// ListSites implements interfaces.Backend
func (c *Client) ListSites(ctx context.Context, token string) ([]model.Site, error) {
	var sites []model.Site
	if err := c.do(ctx, http.MethodGet, pathSites, token, nil, &sites); err != nil {
		return nil, err
	}
	if sites == nil {
		sites = []model.Site{}
	}
	return sites, nil
}

// Dwell implements interfaces.Backend
func (c *Client) Dwell(ctx context.Context, token string, q model.MetricQuery) (*model.DwellResult, error) {
	var result model.DwellResult
	if err := c.do(ctx, http.MethodPost, pathDwell, token, q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Footfall implements interfaces.Backend
func (c *Client) Footfall(ctx context.Context, token string, q model.MetricQuery) (*model.FootfallResult, error) {
	var result model.FootfallResult
	if err := c.do(ctx, http.MethodPost, pathFootfall, token, q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Occupancy implements interfaces.Backend
func (c *Client) Occupancy(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error) {
	return c.buckets(ctx, pathOccupancy, token, q)
}

// Demographics implements interfaces.Backend
func (c *Client) Demographics(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error) {
	return c.buckets(ctx, pathDemographics, token, q)
}

func (c *Client) buckets(ctx context.Context, path, token string, q model.MetricQuery) (*model.BucketsResult, error) {
	var result model.BucketsResult
	if err := c.do(ctx, http.MethodPost, path, token, q, &result); err != nil {
		return nil, err
	}
	if result.Buckets == nil {
		result.Buckets = []model.MetricBucket{}
	}
	return &result, nil
}

// EntryExit implements interfaces.Backend
func (c *Client) EntryExit(ctx context.Context, token string, q model.RecordsQuery) (*model.RecordsPage, error) {
	if q.PageSize <= 0 {
		q.PageSize = model.DefaultPageSize
	}
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}

	var page model.RecordsPage
	if err := c.do(ctx, http.MethodPost, pathEntryExit, token, q, &page); err != nil {
		return nil, err
	}
	// The backend echoes neither page number nor size
	page.PageNumber = q.PageNumber
	page.PageSize = q.PageSize
	page.Normalize()
	return &page, nil
}

func (c *Client) send(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode request body", goerr.V("path", path))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := strings.TrimSpace(token); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	reqID := types.NewRequestID()
	req.Header.Set("X-Request-ID", reqID.String())

	logger := ctxlog.From(ctx)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call backend",
			goerr.T(model.ErrTagTransport),
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("request_id", reqID))
	}

	logger.Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, v any) error {
	resp, err := c.send(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read backend response",
			goerr.T(model.ErrTagTransport),
			goerr.V("path", path))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.New("backend returned error status",
			goerr.T(model.ErrTagStatus),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(data)))
	}

	if v == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to decode backend response",
			goerr.T(model.ErrTagDecode),
			goerr.V("path", path),
			goerr.V("body", truncate(data)))
	}
	return nil
}

func truncate(data []byte) string {
	const limit = 512
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
