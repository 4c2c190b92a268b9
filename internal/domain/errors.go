package domain

import "errors"

// Domain errors represent provisioning-level failures shared across layers.
var (
	// Input errors
	ErrTooManyAttempts  = errors.New("too many invalid attempts")
	ErrNoDomains        = errors.New("domain list is empty")
	ErrPublicIPNotFound = errors.New("public IP address could not be detected")

	// Issuance errors
	ErrIssuanceFailed = errors.New("error with obtaining TLS certificate")

	// Lifecycle errors
	ErrInvalidTransition = errors.New("invalid provisioning state transition")
	ErrAlreadyFinalized  = errors.New("provisioning already finalized")

	// Environment errors
	ErrTemplateNotFound     = errors.New("template not found")
	ErrRuntimeUnavailable   = errors.New("container runtime unavailable")
	ErrRuntimeTooOld        = errors.New("container runtime version below minimum")
	ErrAuthorityUnreachable = errors.New("certificate authority unreachable")
)
