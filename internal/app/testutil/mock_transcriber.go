package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber implements api.Transcriber and remembers every path it was
// handed, in call order.
type MockTranscriber struct {
	mock.Mock

	mu    sync.Mutex
	paths []string
}

func NewMockTranscriber(t *testing.T) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	return m
}

func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	m.mu.Lock()
	m.paths = append(m.paths, inputFilePath)
	m.mu.Unlock()

	args := m.Called(ctx, inputFilePath)
	return args.String(0), args.Error(1)
}

// Paths returns the files transcribed so far.
func (m *MockTranscriber) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}
