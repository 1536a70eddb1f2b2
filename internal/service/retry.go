package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/extractkit/invoice-extraction-service/internal/ai"
)

// errorKind classifies an AI-path failure for the retry policy.
type errorKind int

const (
	kindNone errorKind = iota
	// kindQuota covers quota and rate-limit exhaustion, identified by
	// substring signature. These are worth waiting out.
	kindQuota
	// kindInvalidResponse is a malformed model response; the same model
	// is unlikely to do better on an identical payload.
	kindInvalidResponse
	// kindOther is any remaining failure (network, model, safety block).
	kindOther
)

// action is the retry policy's verdict for one failed attempt.
type action int

const (
	// actionRetrySame backs off and retries the current model candidate.
	actionRetrySame action = iota
	// actionAdvance moves to the next candidate immediately.
	actionAdvance
)

// quotaSignatures identify quota/rate-limit failures in an error
// description, matched case-insensitively.
var quotaSignatures = []string{"quota", "rate limit", "429"}

// classify maps an error to its retry-relevant kind.
func classify(err error) errorKind {
	if err == nil {
		return kindNone
	}

	var respErr *ai.ResponseError
	if errors.As(err, &respErr) {
		return kindInvalidResponse
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range quotaSignatures {
		if strings.Contains(msg, sig) {
			return kindQuota
		}
	}
	return kindOther
}

// decide is the pure retry decision: quota failures retry the same
// candidate until its attempts are exhausted; everything else advances to
// the next candidate immediately.
func decide(kind errorKind, attempt, maxAttempts int) action {
	if kind == kindQuota && attempt < maxAttempts-1 {
		return actionRetrySame
	}
	return actionAdvance
}

// backoffDelay returns the exponential backoff before retry n (0-based):
// base, 2*base, 4*base, ...
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << uint(attempt)
}

// sleepContext waits for d, suspending only the current request's flow.
// It returns early with the context error when the request is abandoned.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
