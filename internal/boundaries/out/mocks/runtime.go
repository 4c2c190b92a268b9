package mocks

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
)

// MockContainerRuntime is a mock implementation of out.ContainerRuntime
type MockContainerRuntime struct {
	mock.Mock
}

// NewMockContainerRuntime creates a mock that asserts its expectations on cleanup.
func NewMockContainerRuntime(t *testing.T) *MockContainerRuntime {
	m := &MockContainerRuntime{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockContainerRuntime) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContainerRuntime) Version(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockContainerRuntime) ExecInContainer(ctx context.Context, containerID string, cmd []string) (*out.ExecResult, error) {
	args := m.Called(ctx, containerID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*out.ExecResult), args.Error(1)
}

func (m *MockContainerRuntime) CopyFromContainer(ctx context.Context, containerID, srcPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, containerID, srcPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
