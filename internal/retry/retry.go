// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package retry provides one declarative backoff policy consumed by every
// retrying path in the application (sync apply, chunk upload, chunk download)
// instead of per-call-site hand-rolled loops. Execution is delegated to
// sethvargo/go-retry; only errors marked with [Retryable] are retried.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy describes an exponential backoff schedule: the n-th retry waits
// BaseDelay * Multiplier^n, bounded by Cap, for at most MaxRetries retries.
type Policy struct {
	MaxRetries uint64        `json:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay"`
	Multiplier float64       `json:"multiplier"`
	Cap        time.Duration `json:"cap"`
}

// DefaultPolicy returns the backoff schedule used when the configuration
// does not override it: 3 retries starting at 500ms, doubling, capped at 30s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		Multiplier: 2.0,
		Cap:        30 * time.Second,
	}
}

// Backoff materializes the policy as a go-retry Backoff. Zero-value fields
// fall back to the defaults so a partially configured policy stays sane.
func (p Policy) Backoff() retry.Backoff {
	def := DefaultPolicy()
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	if p.Cap <= 0 {
		p.Cap = def.Cap
	}

	next := float64(p.BaseDelay)
	b := retry.BackoffFunc(func() (time.Duration, bool) {
		d := time.Duration(next)
		if d > p.Cap {
			d = p.Cap
		}
		next *= p.Multiplier
		return d, false
	})

	return retry.WithMaxRetries(p.MaxRetries, b)
}

// Do runs fn under the policy's backoff schedule. fn is retried only when it
// returns an error wrapped with [Retryable]; any other error aborts
// immediately. Context cancellation aborts between attempts.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, p.Backoff(), fn)
}

// Retryable marks err as transient so [Do] will retry it. Validation and
// integrity errors must never be marked.
func Retryable(err error) error {
	return retry.RetryableError(err)
}
