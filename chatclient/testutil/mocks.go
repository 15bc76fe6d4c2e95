package testutil

import (
	"context"
	"sync"
)

// MockClient implements conversation.Client and the view's ping surface for testing
type MockClient struct {
	// Configurable responses
	SendFunc func(ctx context.Context, message string) (string, error)
	PingFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls []string
}

// NewMockClient creates a mock client that answers every message with reply
func NewMockClient(reply string) *MockClient {
	mock := &MockClient{}
	mock.SendFunc = func(ctx context.Context, message string) (string, error) {
		return reply, nil
	}
	return mock
}

// NewFailingMockClient creates a mock client whose every call fails with err
func NewFailingMockClient(err error) *MockClient {
	mock := &MockClient{}
	mock.SendFunc = func(ctx context.Context, message string) (string, error) {
		return "", err
	}
	return mock
}

// NewBlockingMockClient answers with reply only once release is closed.
// A cancelled context unblocks it early with ctx.Err().
func NewBlockingMockClient(reply string, release <-chan struct{}) *MockClient {
	mock := &MockClient{}
	mock.SendFunc = func(ctx context.Context, message string) (string, error) {
		select {
		case <-release:
			return reply, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return mock
}

func (m *MockClient) Send(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, message)
	m.mu.Unlock()
	return m.SendFunc(ctx, message)
}

// Calls returns the messages passed to Send, in call order
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Ping succeeds unless PingFunc is set
func (m *MockClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockClient) BaseURL() string {
	return "http://mock.invalid"
}
