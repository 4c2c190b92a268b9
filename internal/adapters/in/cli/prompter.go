package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
)

// ErrInterrupted is returned when the operator aborts a prompt.
var ErrInterrupted = errors.New("prompt interrupted")

// SurveyPrompter implements out.Prompter on the terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a prompter. opts are passed to every question,
// e.g. survey.WithStdio for tests.
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

// Ask shows q and returns the raw answer.
func (p *SurveyPrompter) Ask(ctx context.Context, q out.Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var answer string
	prompt := &survey.Input{
		Message: q.Message,
		Help:    q.Help,
	}
	if err := survey.AskOne(prompt, &answer, p.opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("survey failed: %w", err)
	}
	return answer, nil
}
