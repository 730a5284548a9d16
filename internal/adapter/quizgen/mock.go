package quizgen

import (
	"context"
	"errors"
	"sync"
)

// MockResponse is a canned response for MockBackend.
type MockResponse struct {
	Text  string
	Usage *Usage
	Err   error
}

// MockBackend is a deterministic Backend for tests. It returns canned
// responses in FIFO order and records every request.
type MockBackend struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []CompletionRequest
}

func NewMockBackend(responses ...MockResponse) *MockBackend {
	return &MockBackend{responses: responses}
}

// Complete returns the next canned response, or a transport error once the
// queue is empty.
func (m *MockBackend) Complete(_ context.Context, req CompletionRequest) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return nil, errors.New("mock backend: no responses left")
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Completion{Text: resp.Text, Model: req.Model, Usage: resp.Usage}, nil
}

// CallCount returns the number of Complete calls made.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
