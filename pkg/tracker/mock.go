package tracker

import (
	"context"
	"sync"

	"github.com/abrezinsky/tourneytracker/internal/models"
)

// MockClient is a mock tracker client for testing
type MockClient struct {
	mu        sync.Mutex
	snapshot  *models.Snapshot
	baseURL   string
	fetchErr  error
	pingErr   error
	fetchURLs []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithSnapshot sets the snapshot to return
func WithSnapshot(snap *models.Snapshot) MockOption {
	return func(m *MockClient) {
		m.snapshot = snap
	}
}

// WithFetchError sets an error to return from FetchSnapshot
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// WithPingError sets an error to return from Ping
func WithPingError(err error) MockOption {
	return func(m *MockClient) {
		m.pingErr = err
	}
}

// WithBaseURL sets the initial base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock client with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{snapshot: &models.Snapshot{Version: models.SnapshotVersion}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = url
}

// Ping returns the configured ping error
func (m *MockClient) Ping(ctx context.Context) error {
	return m.pingErr
}

// FetchSnapshot returns the configured snapshot or error and records the URL used
func (m *MockClient) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchURLs = append(m.fetchURLs, m.baseURL)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.snapshot, nil
}

// FetchedFrom returns the base URLs FetchSnapshot was called with
func (m *MockClient) FetchedFrom() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetchURLs...)
}

// Ensure implementations satisfy the interface
var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
