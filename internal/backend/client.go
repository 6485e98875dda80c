package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/domain"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

const maxBodyBytes = 8 << 20

// Client talks to the username lookup backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// New returns a client for the backend rooted at baseURL (for example
// http://localhost:5000/api). timeout bounds every request.
func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Lookup asks the backend whether username exists on each platform endpoint
// key. The response maps every requested key to its raw result.
func (c *Client) Lookup(ctx context.Context, username string, endpoints []string) (domain.RawResults, error) {
	u := c.searchURL(username, endpoints)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cerr := classify(err)
		c.log.Warn("backend search failed",
			logger.String("username", username),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(cerr),
		)
		return nil, cerr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.log.Warn("backend search rejected",
			logger.String("username", username),
			logger.Int("status", resp.StatusCode),
		)
		return nil, statusError(resp.StatusCode)
	}

	var raw domain.RawResults
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return nil, &RequestFailedError{
			StatusCode: resp.StatusCode,
			Message:    "malformed response: " + err.Error(),
		}
	}
	if raw == nil {
		raw = domain.RawResults{}
	}

	c.log.Debug("backend search done",
		logger.String("username", username),
		logger.Int("keys", len(raw)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return raw, nil
}

// Health checks the backend health endpoint. nil means reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode)
	}
	return nil
}

func (c *Client) searchURL(username string, endpoints []string) string {
	keys := make([]string, len(endpoints))
	for i, e := range endpoints {
		keys[i] = url.QueryEscape(e)
	}
	return c.baseURL + "/search/" + url.PathEscape(username) + "?platforms=" + strings.Join(keys, ",")
}
