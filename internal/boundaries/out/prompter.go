package out

import "context"

// Question is a single free-text prompt shown to the operator.
type Question struct {
	Message string
	Help    string
}

// Prompter reads answers from the operator.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
}
