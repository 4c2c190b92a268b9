package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockOrchestrator is a mock implementation of out.Orchestrator
type MockOrchestrator struct {
	mock.Mock
}

// NewMockOrchestrator creates a mock that asserts its expectations on cleanup.
func NewMockOrchestrator(t *testing.T) *MockOrchestrator {
	m := &MockOrchestrator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrchestrator) Up(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
