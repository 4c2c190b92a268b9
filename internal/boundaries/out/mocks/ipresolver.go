package mocks

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockPublicIPResolver is a mock implementation of out.PublicIPResolver
type MockPublicIPResolver struct {
	mock.Mock
}

// NewMockPublicIPResolver creates a mock that asserts its expectations on cleanup.
func NewMockPublicIPResolver(t *testing.T) *MockPublicIPResolver {
	m := &MockPublicIPResolver{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPublicIPResolver) PublicIP(ctx context.Context) (netip.Addr, error) {
	args := m.Called(ctx)
	return args.Get(0).(netip.Addr), args.Error(1)
}
