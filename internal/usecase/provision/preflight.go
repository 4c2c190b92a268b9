package provision

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/Sergey2677/nginx/internal/domain"
)

// Preflight checks the container engine is reachable and recent enough and,
// when enabled, that the selected certificate authority answers.
func (s *Service) Preflight(ctx context.Context, staging bool) error {
	if err := s.runtime.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRuntimeUnavailable, err)
	}

	if s.opts.MinRuntimeVersion != "" {
		version, err := s.runtime.Version(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrRuntimeUnavailable, err)
		}
		if err := checkMinVersion(version, s.opts.MinRuntimeVersion); err != nil {
			return err
		}
		s.log.Debug("container engine ok", "version", version)
	}

	if s.opts.ACMEPreflight && s.authority != nil {
		tos, err := s.authority.Probe(ctx, staging)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrAuthorityUnreachable, err)
		}
		s.log.Info("certificate authority reachable", "staging", staging, "terms", tos)
	}

	return nil
}

// checkMinVersion compares by precedence so pre-release engine builds such
// as 24.0.7-rc1 are still accepted above the minimum.
func checkMinVersion(actual, minimum string) error {
	minV, err := semver.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum engine version %q: %w", minimum, err)
	}
	v, err := semver.NewVersion(actual)
	if err != nil {
		return fmt.Errorf("%w: unparseable engine version %q", domain.ErrRuntimeUnavailable, actual)
	}
	if v.LessThan(minV) {
		return fmt.Errorf("%w: %s < %s", domain.ErrRuntimeTooOld, v, minV)
	}
	return nil
}
