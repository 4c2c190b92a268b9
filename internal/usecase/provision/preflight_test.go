package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Sergey2677/nginx/internal/domain"
)

func TestService_Preflight(t *testing.T) {
	t.Run("engine unreachable", func(t *testing.T) {
		f := newFixture(t, nil)
		f.runtime.On("Ping", mock.Anything).Return(errors.New("dial unix docker.sock")).Once()

		err := f.svc.Preflight(context.Background(), false)
		assert.ErrorIs(t, err, domain.ErrRuntimeUnavailable)
	})

	t.Run("engine too old", func(t *testing.T) {
		f := newFixture(t, nil)
		f.runtime.On("Ping", mock.Anything).Return(nil).Once()
		f.runtime.On("Version", mock.Anything).Return("18.9.1", nil).Once()

		err := f.svc.Preflight(context.Background(), false)
		assert.ErrorIs(t, err, domain.ErrRuntimeTooOld)
	})

	t.Run("authority unreachable", func(t *testing.T) {
		f := newFixture(t, nil)
		f.runtime.On("Ping", mock.Anything).Return(nil).Once()
		f.runtime.On("Version", mock.Anything).Return("28.0.1", nil).Once()
		f.ca.On("Probe", mock.Anything, true).Return("", errors.New("timeout")).Once()

		err := f.svc.Preflight(context.Background(), true)
		assert.ErrorIs(t, err, domain.ErrAuthorityUnreachable)
	})

	t.Run("probe disabled", func(t *testing.T) {
		f := newFixture(t, func(o *Options) { o.ACMEPreflight = false; o.MinRuntimeVersion = "" })
		f.runtime.On("Ping", mock.Anything).Return(nil).Once()

		assert.NoError(t, f.svc.Preflight(context.Background(), false))
	})
}

func TestCheckMinVersion(t *testing.T) {
	tests := []struct {
		actual  string
		minimum string
		wantErr error
	}{
		{"28.0.1", "20.10.0", nil},
		{"20.10.0", "20.10.0", nil},
		{"24.0.7-rc1", "20.10.0", nil},
		{"20.10.24+dfsg1", "20.10.0", nil},
		{"18.9.1", "20.10.0", domain.ErrRuntimeTooOld},
		{"garbage", "20.10.0", domain.ErrRuntimeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.actual, func(t *testing.T) {
			err := checkMinVersion(tt.actual, tt.minimum)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Error(t, checkMinVersion("28.0.1", "not-a-version"))
}
