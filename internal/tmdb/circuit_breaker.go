// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/metrics"
)

// BreakerName labels the TMDb breaker in logs and metrics.
const BreakerName = "tmdb-api"

// CircuitBreakerClient wraps Client so that a failing TMDb stops being
// called for a while instead of slowing every report down.
//
// Not-found answers and a missing credential count as successes. Calls that
// fail because the caller's own context ended are not counted at all: one
// aborted upload must not open the breaker for every other report.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client with a breaker:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client *Client) *CircuitBreakerClient {
	name := BreakerName
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},
		IsSuccessful: func(err error) bool {
			var ce *callerCanceledError
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrDisabled) || errors.As(err, &ce)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: name}
}

// Enabled reports whether the wrapped client has a credential.
func (cbc *CircuitBreakerClient) Enabled() bool {
	return cbc.client.Enabled()
}

// State returns the current breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

// Search is Client.Search behind the breaker.
func (cbc *CircuitBreakerClient) Search(ctx context.Context, title, year string) (*SearchResult, error) {
	return castResult[SearchResult](cbc.execute(ctx, func() (interface{}, error) {
		return cbc.client.Search(ctx, title, year)
	}))
}

// Details is Client.Details behind the breaker.
func (cbc *CircuitBreakerClient) Details(ctx context.Context, id int) (*MovieDetails, error) {
	return castResult[MovieDetails](cbc.execute(ctx, func() (interface{}, error) {
		return cbc.client.Details(ctx, id)
	}))
}

// callerCanceledError marks a failure caused by the caller's context ending
// mid-call. The breaker records it as a success.
type callerCanceledError struct {
	err error
}

func (e *callerCanceledError) Error() string { return e.err.Error() }
func (e *callerCanceledError) Unwrap() error { return e.err }

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (cbc *CircuitBreakerClient) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "canceled").Inc()
		return nil, err
	}

	result, err := cbc.cb.Execute(func() (interface{}, error) {
		res, err := fn()
		if err != nil && ctx.Err() != nil && isContextError(err) {
			return res, &callerCanceledError{err: err}
		}
		return res, err
	})

	var ce *callerCanceledError
	if errors.As(err, &ce) {
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "canceled").Inc()
		return nil, ce.err
	}

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
		logging.Debug().Err(err).Str("breaker", cbc.name).Msg("[CIRCUIT BREAKER] Request rejected")
	case errors.Is(err, ErrNotFound) || errors.Is(err, ErrDisabled):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
	}
	return result, err
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
