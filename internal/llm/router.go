package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/milkyai/milky-relay/internal/models"
	"go.uber.org/zap"
)

// Policy controls retry and fallback pacing.
type Policy struct {
	// MaxAttempts bounds calls against a single candidate.
	MaxAttempts int
	// RetryBase scales the linear backoff after timeouts and 5xx.
	RetryBase time.Duration
	// RateLimitBase scales the (longer) backoff after a 429.
	RateLimitBase time.Duration
	// RequestTimeout is the first attempt's deadline; later attempts
	// against the same candidate get RequestTimeout*(1+0.5*attempt).
	RequestTimeout time.Duration
	// CandidateDelay is the fixed pause before moving to the next model.
	CandidateDelay time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    2,
		RetryBase:      500 * time.Millisecond,
		RateLimitBase:  2 * time.Second,
		RequestTimeout: 60 * time.Second,
		CandidateDelay: 300 * time.Millisecond,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 2
	}
	if p.RetryBase <= 0 {
		p.RetryBase = 500 * time.Millisecond
	}
	if p.RateLimitBase <= 0 {
		p.RateLimitBase = 2 * time.Second
	}
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = 60 * time.Second
	}
	return p
}

// Result reports the assistant text together with the model that actually
// produced it, which after fallback may not be the one the user asked for.
type Result struct {
	Text  string
	Model models.Descriptor
}

// ExhaustedError means every candidate failed. Kind reflects the last
// observed failure: AllTimedOut, AllRateLimited, or Unexpected.
type ExhaustedError struct {
	Kind     ExhaustionKind
	LastErr  error
	Attempts int
}

type ExhaustionKind string

const (
	AllTimedOut    ExhaustionKind = "all_timed_out"
	AllRateLimited ExhaustionKind = "all_rate_limited"
	Unexpected     ExhaustionKind = "unexpected"
)

func (e *ExhaustedError) Error() string {
	return "all model candidates exhausted: " + string(e.Kind)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// Router sends a conversation to the first candidate and walks the rest of
// the list on failure. All fan-out is strictly sequential; the handler
// goroutine sleeps through backoffs.
type Router struct {
	clients map[models.Vendor]Client
	policy  Policy
	logger  *zap.Logger
}

func NewRouter(policy Policy, logger *zap.Logger, clients ...Client) *Router {
	m := make(map[models.Vendor]Client, len(clients))
	for _, c := range clients {
		m[c.Vendor()] = c
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{clients: m, policy: policy.normalized(), logger: logger}
}

// Route tries each candidate in order and returns the first non-empty
// assistant text. The requested model's vendor being unconfigured is an
// immediate error, never a silent substitution; unconfigured vendors later
// in the list are skipped since they cannot be attempted at all.
func (r *Router) Route(ctx context.Context, messages []Message, candidates []models.Descriptor) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, &Error{Kind: FailFatal, Msg: "no model candidates"}
	}

	var lastErr error
	attempts := 0

	for ci, cand := range candidates {
		client, ok := r.clients[cand.Vendor]
		if !ok || !client.Configured() {
			if ci == 0 {
				return Result{}, newUnconfigured(cand.Vendor)
			}
			continue
		}

		if ci > 0 && r.policy.CandidateDelay > 0 {
			if err := sleepCtx(ctx, r.policy.CandidateDelay); err != nil {
				return Result{}, err
			}
		}

		text, err := r.tryCandidate(ctx, client, cand, messages, &attempts)
		if err == nil && strings.TrimSpace(text) != "" {
			r.logger.Info("chat routed",
				zap.String("model_key", cand.Key),
				zap.String("vendor", string(cand.Vendor)),
				zap.Int("attempts", attempts),
				zap.Bool("fallback", ci > 0),
			)
			return Result{Text: text, Model: cand}, nil
		}
		if err == nil {
			// 200 with nothing to show; move on without re-trying
			// this provider.
			err = &Error{Kind: FailEmpty, Vendor: cand.Vendor, Msg: "empty completion"}
		}
		lastErr = err
		r.logger.Warn("candidate failed",
			zap.String("model_key", cand.Key),
			zap.String("vendor", string(cand.Vendor)),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err),
		)
	}

	return Result{}, &ExhaustedError{Kind: exhaustionKind(lastErr), LastErr: lastErr, Attempts: attempts}
}

// tryCandidate runs the bounded retry loop against one model. Fatal
// failures and empty completions end the loop early; timeouts, 429s and
// 5xx back off linearly and try again.
func (r *Router) tryCandidate(ctx context.Context, client Client, cand models.Descriptor, messages []Message, attempts *int) (string, error) {
	var lastErr error

	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, r.backoff(lastErr, attempt)); err != nil {
				return "", err
			}
		}

		*attempts++
		actx, cancel := context.WithTimeout(ctx, r.attemptTimeout(attempt))
		text, err := client.SendChat(actx, messages, cand.ProviderID)
		cancel()

		if err == nil {
			// Empty text is handled by the caller: next candidate,
			// no second shot at this provider.
			return text, nil
		}

		lastErr = err
		var le *Error
		if !(errors.As(err, &le) && le.Retryable()) {
			break
		}
		r.logger.Debug("retrying candidate",
			zap.String("model_key", cand.Key),
			zap.Int("attempt", attempt+1),
			zap.String("kind", string(KindOf(err))),
		)
	}
	return "", lastErr
}

// attemptTimeout lengthens the deadline on each retry so a slow provider
// is not refired against immediately with the same budget.
func (r *Router) attemptTimeout(attempt int) time.Duration {
	return r.policy.RequestTimeout + time.Duration(attempt)*r.policy.RequestTimeout/2
}

func (r *Router) backoff(err error, attempt int) time.Duration {
	base := r.policy.RetryBase
	if KindOf(err) == FailRateLimited {
		base = r.policy.RateLimitBase
	}
	return time.Duration(attempt) * base
}

func exhaustionKind(err error) ExhaustionKind {
	switch KindOf(err) {
	case FailTimeout:
		return AllTimedOut
	case FailRateLimited:
		return AllRateLimited
	default:
		return Unexpected
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
