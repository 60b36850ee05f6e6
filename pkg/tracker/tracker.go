// Package tracker provides a client for another tracker instance's HTTP API.
// It is used to pull a full export from a remote instance.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
)

// maxSnapshotBytes bounds how much of a remote export is read
const maxSnapshotBytes = 32 << 20

// Client defines the interface for remote tracker operations
type Client interface {
	// Ping checks that the remote instance is reachable and healthy
	Ping(ctx context.Context) error
	// FetchSnapshot retrieves a full export from the remote instance
	FetchSnapshot(ctx context.Context) (*models.Snapshot, error)
	// BaseURL returns the configured remote base URL
	BaseURL() string
	// SetBaseURL updates the remote base URL
	SetBaseURL(url string)
}

// HTTPClient is a real HTTP client for a remote tracker
type HTTPClient struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new tracker HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(baseURL, &http.Client{Timeout: 30 * time.Second}, log)
}

// NewHTTPClientWithHTTPClient creates a new tracker client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured remote base URL
func (c *HTTPClient) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL updates the remote base URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(url, "/")
	c.mu.Unlock()
}

// get issues a GET for path and returns the body of a 200 response
func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	base := c.BaseURL()
	if base == "" {
		return nil, fmt.Errorf("remote tracker URL is not configured")
	}
	reqURL := base + path

	c.log.Debug("Tracker request", "method", "GET", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to tracker: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Tracker response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}
	return body, nil
}

// Ping checks the remote health endpoint
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/api/health")
	return err
}

// FetchSnapshot retrieves a full export from the remote instance
func (c *HTTPClient) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	body, err := c.get(ctx, "/api/export")
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}
