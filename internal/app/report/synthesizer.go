// Package report turns a transcript into a five-section care handoff report.
package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/api"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

const DefaultTemperature float32 = 0.7

// RetryPolicy bounds synthesis attempts. The delay before retry n is InitialDelay * Multiplier^(n-1).
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:  3,
	InitialDelay: 5 * time.Second,
	Multiplier:   2,
}

// Delay returns the wait before retry n (n >= 1).
func (p RetryPolicy) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	return time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(n-1)))
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0
	b.Reset()

	retries := uint64(0)
	if p.MaxAttempts > 1 {
		retries = uint64(p.MaxAttempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// RetryFunc observes a failed attempt before the synthesizer sleeps for delay.
type RetryFunc func(attempt int, err error, delay time.Duration)

type Synthesizer struct {
	completer   api.Completer
	policy      RetryPolicy
	temperature float32
	callTimeout time.Duration
	timer       backoff.Timer
	onRetry     RetryFunc
	logger      *zap.Logger
}

type Option func(*Synthesizer)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Synthesizer) {
		if p.MaxAttempts > 0 {
			s.policy = p
		}
	}
}

func WithTemperature(t float32) Option {
	return func(s *Synthesizer) { s.temperature = t }
}

// WithCallTimeout bounds each individual completion request.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Synthesizer) { s.callTimeout = d }
}

// WithTimer replaces the wall-clock timer used between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(s *Synthesizer) { s.timer = t }
}

func WithRetryHook(fn RetryFunc) Option {
	return func(s *Synthesizer) { s.onRetry = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewSynthesizer(completer api.Completer, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		completer:   completer,
		policy:      DefaultRetryPolicy,
		temperature: DefaultTemperature,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize requests a report for transcript, retrying per the policy.
// A blank completion counts as a failed attempt. The report structure is not validated.
func (s *Synthesizer) Synthesize(ctx context.Context, transcript string) (string, error) {
	req := api.CompletionRequest{
		System:      SystemInstruction,
		Prompt:      BuildPrompt(transcript),
		Temperature: s.temperature,
	}

	var (
		attempt int
		report  string
	)
	operation := func() error {
		attempt++
		callCtx := ctx
		if s.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
			defer cancel()
		}

		text, err := s.completer.Complete(callCtx, req)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return apperrors.ErrEmptyCompletion
		}
		report = text
		return nil
	}

	notify := func(err error, delay time.Duration) {
		s.logger.Warn("report synthesis attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.policy.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if s.onRetry != nil {
			s.onRetry(attempt, err, delay)
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, s.policy.backOff(ctx), notify, s.timer)
	if err != nil {
		s.logger.Error("report synthesis failed", zap.Int("attempts", attempt), zap.Error(err))
		return "", apperrors.WrapKind(apperrors.KindSynthesis, err, fmt.Sprintf("report synthesis failed after %d attempt(s)", attempt))
	}
	return report, nil
}
