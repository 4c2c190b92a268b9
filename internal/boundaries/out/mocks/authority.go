package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Sergey2677/nginx/internal/domain"
)

// MockCertificateAuthority is a mock implementation of out.CertificateAuthority
type MockCertificateAuthority struct {
	mock.Mock
}

// NewMockCertificateAuthority creates a mock that asserts its expectations on cleanup.
func NewMockCertificateAuthority(t *testing.T) *MockCertificateAuthority {
	m := &MockCertificateAuthority{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCertificateAuthority) Probe(ctx context.Context, staging bool) (string, error) {
	args := m.Called(ctx, staging)
	return args.String(0), args.Error(1)
}

func (m *MockCertificateAuthority) Inspect(pemChain []byte) (*domain.CertificateInfo, error) {
	args := m.Called(pemChain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CertificateInfo), args.Error(1)
}
