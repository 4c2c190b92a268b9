package domain

import "fmt"

// ProvisionState is a step of the bootstrap lifecycle.
type ProvisionState string

const (
	StateProvisioning ProvisionState = "provisioning"
	StateIssued       ProvisionState = "issued"
	StateFinalized    ProvisionState = "finalized"
	StateFailed       ProvisionState = "failed"
)

var provisionTransitions = map[ProvisionState][]ProvisionState{
	StateProvisioning: {StateIssued, StateFailed},
	StateIssued:       {StateFinalized, StateFailed},
}

// Provision tracks the lifecycle of one bootstrap run.
// Finalized and failed are terminal.
type Provision struct {
	state ProvisionState
}

// NewProvision starts a run in the provisioning state.
func NewProvision() *Provision {
	return &Provision{state: StateProvisioning}
}

// State returns the current state.
func (p *Provision) State() ProvisionState {
	return p.state
}

// Advance moves the run to the next state.
func (p *Provision) Advance(to ProvisionState) error {
	if p.state == StateFinalized && to == StateFinalized {
		return ErrAlreadyFinalized
	}
	for _, allowed := range provisionTransitions[p.state] {
		if allowed == to {
			p.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.state, to)
}

// Fail marks the run failed unless it already reached a terminal state.
func (p *Provision) Fail() {
	if p.state == StateProvisioning || p.state == StateIssued {
		p.state = StateFailed
	}
}
