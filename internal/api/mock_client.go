package api

import (
	"context"
	"sync"

	"github.com/diogo/floatchat/internal/models"
)

// MockClient is a mock implementation of BackendClient for testing
type MockClient struct {
	// Mock return values
	Base      string
	ChatReply *models.ChatReply
	ChatErr   error
	HealthVal *HealthStatus
	HealthErr error

	// Gate, when set, blocks Chat until it is closed
	Gate chan struct{}

	// Call recorders
	mu      sync.Mutex
	Prompts []string
}

// Ensure MockClient implements BackendClient
var _ BackendClient = (*MockClient)(nil)

func (m *MockClient) Chat(ctx context.Context, prompt string) (*models.ChatReply, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.ChatReply, m.ChatErr
}

func (m *MockClient) Health(ctx context.Context) (*HealthStatus, error) {
	return m.HealthVal, m.HealthErr
}

func (m *MockClient) BaseURL() string {
	if m.Base == "" {
		return models.DefaultBaseURL
	}
	return m.Base
}

func (m *MockClient) ChatURL() string {
	return m.BaseURL() + models.ChatPath
}

// CallCount returns how many times Chat was called
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
