package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
)

// MockPrompter is a mock implementation of out.Prompter
type MockPrompter struct {
	mock.Mock
}

// NewMockPrompter creates a mock that asserts its expectations on cleanup.
func NewMockPrompter(t *testing.T) *MockPrompter {
	m := &MockPrompter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPrompter) Ask(ctx context.Context, q out.Question) (string, error) {
	args := m.Called(ctx, q)
	return args.String(0), args.Error(1)
}

// ScriptedPrompter answers questions in order from a fixed list.
// It fails the test when asked more questions than it has answers.
type ScriptedPrompter struct {
	t       *testing.T
	answers []string
	Asked   []out.Question
}

// NewScriptedPrompter returns a prompter replaying answers.
func NewScriptedPrompter(t *testing.T, answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{t: t, answers: answers}
}

func (p *ScriptedPrompter) Ask(_ context.Context, q out.Question) (string, error) {
	p.Asked = append(p.Asked, q)
	if len(p.answers) == 0 {
		p.t.Fatalf("unexpected question: %s", q.Message)
		return "", nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}
