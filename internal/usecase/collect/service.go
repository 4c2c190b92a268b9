// Package collect asks the operator for the bootstrap parameters and
// validates every answer, retrying a bounded number of times.
package collect

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Sergey2677/nginx/internal/boundaries/out"
	"github.com/Sergey2677/nginx/internal/domain"
	"github.com/Sergey2677/nginx/pkg/validation"
)

var (
	containerNameQuestion = out.Question{
		Message: "Please, enter a container name:",
		Help:    "Leave empty and the container will be named automatically.",
	}
	domainsQuestion = out.Question{
		Message: "Please, enter your domain and subdomains separated by spaces:",
		Help:    "Enter your public IP or leave empty to use a nip.io name derived from it.",
	}
	portQuestion = out.Question{
		Message: "Please, enter a port [1-65535] for the webserver:",
		Help:    "Leave empty to use port 80.",
	}
	emailQuestion = out.Question{
		Message: "Please, enter your email (strongly recommended):",
		Help:    "Used by the certificate authority for expiry notices. Leave empty to skip.",
	}
	stagingQuestion = out.Question{
		Message: "Is it for testing? [y/n]:",
		Help:    "Answering y issues the certificate from the staging authority.",
	}
)

// Service implements in.InputCollector.
type Service struct {
	prompter    out.Prompter
	resolver    out.PublicIPResolver
	maxAttempts int
	now         func() time.Time
	log         *log.Logger
}

// NewService creates a collector allowing maxAttempts answers per question.
func NewService(prompter out.Prompter, resolver out.PublicIPResolver, maxAttempts int, log *log.Logger) *Service {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Service{
		prompter:    prompter,
		resolver:    resolver,
		maxAttempts: maxAttempts,
		now:         time.Now,
		log:         log,
	}
}

// Collect asks for the container name, domains, port, email and staging
// flag, in that order.
func (s *Service) Collect(ctx context.Context) (domain.Answers, error) {
	var answers domain.Answers
	var err error

	if answers.ContainerName, err = ask(ctx, s, "container name", containerNameQuestion, s.parseContainerName); err != nil {
		return domain.Answers{}, err
	}
	if answers.Domains, err = ask(ctx, s, "domain", domainsQuestion, s.parseDomains(ctx)); err != nil {
		return domain.Answers{}, err
	}
	if answers.Port, err = ask(ctx, s, "port", portQuestion, parsePort); err != nil {
		return domain.Answers{}, err
	}
	if answers.Email, err = ask(ctx, s, "email", emailQuestion, parseEmail); err != nil {
		return domain.Answers{}, err
	}
	if answers.Staging, err = ask(ctx, s, "staging flag", stagingQuestion, parseStaging); err != nil {
		return domain.Answers{}, err
	}

	s.log.Debug("answers collected",
		"container", answers.ContainerName,
		"domains", answers.Domains.Joined(),
		"port", answers.Port,
		"staging", answers.Staging,
	)
	return answers, nil
}

// ask repeats q until parse accepts the answer. Only validation errors are
// retried; anything else aborts immediately.
func ask[T any](ctx context.Context, s *Service, field string, q out.Question, parse func(string) (T, error)) (T, error) {
	var zero T
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		answer, err := s.prompter.Ask(ctx, q)
		if err != nil {
			return zero, fmt.Errorf("failed to read %s: %w", field, err)
		}

		value, err := parse(strings.TrimSpace(answer))
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, validation.ErrInvalid) {
			return zero, err
		}

		s.log.Warn("invalid "+field, "attempt", attempt, "of", s.maxAttempts, "err", err)
	}
	return zero, fmt.Errorf("%w: %s", domain.ErrTooManyAttempts, field)
}

func (s *Service) parseContainerName(input string) (string, error) {
	if input == "" {
		return domain.DefaultContainerName(s.now()), nil
	}
	return input, nil
}

func (s *Service) parseDomains(ctx context.Context) func(string) (domain.Domains, error) {
	return func(input string) (domain.Domains, error) {
		tokens := strings.Fields(strings.ToLower(input))

		if len(tokens) == 0 {
			s.log.Info("no domain entered, detecting public IP")
			ip, err := s.resolver.PublicIP(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrPublicIPNotFound, err)
			}
			s.log.Info("public IP detected", "ip", ip)
			return domain.NipDomains(ip), nil
		}

		if len(tokens) == 1 {
			if ip, ok := validation.ParseIPv4(tokens[0]); ok {
				return domain.NipDomains(ip), nil
			}
		}

		if err := validation.ValidateHostnames(tokens); err != nil {
			return nil, err
		}
		return domain.Domains(tokens), nil
	}
}

func parsePort(input string) (string, error) {
	if input == "" {
		return domain.DefaultPort, nil
	}
	port, err := validation.ValidatePort(input)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(port), nil
}

func parseEmail(input string) (string, error) {
	if input == "" {
		return domain.NoEmail, nil
	}
	if err := validation.ValidateEmail(input); err != nil {
		return "", err
	}
	return input, nil
}

func parseStaging(input string) (bool, error) {
	return strings.EqualFold(input, "y"), nil
}
