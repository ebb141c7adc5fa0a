package slackapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaximumAttemptsConstant       = 5
	defaultSuccessCooldownConstant       = time.Second
	transportNotConfiguredMessage        = "transport not configured"
	loggerNotConfiguredMessageConstant   = "logger not configured"
	apiErrorTemplateConstant             = "endpoint %s reported error: %s"
	callFailedTemplateConstant           = "endpoint %s call failed: %s"
	retriesExhaustedTemplateConstant     = "endpoint %s still rate limited after %d attempts"
	rateLimitedLogMessageConstant        = "rate limited; backing off"
	callSucceededLogMessageConstant      = "call succeeded"
	applicationErrorLogMessageConstant   = "call reported application error"
	transportFailureLogMessageConstant   = "call failed in transport"
	logFieldEndpointNameConstant         = "endpoint"
	logFieldAttemptNumberConstant        = "attempt"
	logFieldMaximumAttemptsConstant      = "max_attempts"
	logFieldWaitDurationConstant         = "wait_duration"
	logFieldApplicationErrorCodeConstant = "error_code"
)

// ErrTransportNotConfigured indicates the client was constructed without a transport.
var ErrTransportNotConfigured = errors.New(transportNotConfiguredMessage)

// ErrLoggerNotConfigured indicates the client was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// APIError surfaces a named application-level failure reported by the remote service.
type APIError struct {
	Endpoint string
	Code     string
}

// Error describes the application failure.
func (apiError APIError) Error() string {
	return fmt.Sprintf(apiErrorTemplateConstant, apiError.Endpoint, apiError.Code)
}

// CallFailedError wraps a connection-level failure for one endpoint call.
type CallFailedError struct {
	Endpoint string
	Cause    error
}

// Error describes the transport failure.
func (callError CallFailedError) Error() string {
	return fmt.Sprintf(callFailedTemplateConstant, callError.Endpoint, callError.Cause)
}

// Unwrap exposes the underlying cause.
func (callError CallFailedError) Unwrap() error {
	return callError.Cause
}

// RateLimitExhaustedError reports that every allowed attempt was throttled.
type RateLimitExhaustedError struct {
	Endpoint string
	Attempts int
}

// Error describes the exhausted retry attempts.
func (exhaustedError RateLimitExhaustedError) Error() string {
	return fmt.Sprintf(retriesExhaustedTemplateConstant, exhaustedError.Endpoint, exhaustedError.Attempts)
}

// Sleeper abstracts blocking waits so tests can observe them without real delays.
type Sleeper interface {
	Sleep(executionContext context.Context, waitDuration time.Duration)
}

// SystemSleeper implements Sleeper with a context-aware timer.
type SystemSleeper struct{}

// Sleep blocks for the requested duration or until the context is cancelled.
func (SystemSleeper) Sleep(executionContext context.Context, waitDuration time.Duration) {
	if waitDuration <= 0 {
		return
	}
	waitTimer := time.NewTimer(waitDuration)
	defer waitTimer.Stop()
	select {
	case <-waitTimer.C:
	case <-executionContext.Done():
	}
}

// CallEventObserver receives lifecycle notifications for remote API calls.
type CallEventObserver interface {
	// CallStarted notifies observers that an endpoint call is beginning.
	CallStarted(endpointName string, attemptNumber int)
	// CallCompleted notifies observers of the classified outcome for an endpoint call.
	CallCompleted(endpointName string, outcome Outcome)
	// CallRateLimited reports an imposed wait before the next attempt.
	CallRateLimited(endpointName string, attemptNumber int, maximumAttempts int, waitDuration time.Duration)
}

// noopCallEventObserver discards all call events.
type noopCallEventObserver struct{}

// CallStarted implements CallEventObserver for the no-op observer.
func (noopCallEventObserver) CallStarted(string, int) {}

// CallCompleted implements CallEventObserver for the no-op observer.
func (noopCallEventObserver) CallCompleted(string, Outcome) {}

// CallRateLimited implements CallEventObserver for the no-op observer.
func (noopCallEventObserver) CallRateLimited(string, int, int, time.Duration) {}

// RetrySettings tunes the retry loop; zero values adopt defaults.
type RetrySettings struct {
	MaximumAttempts int
	SuccessCooldown time.Duration
	Sleeper         Sleeper
	Observer        CallEventObserver
}

// RetryingClient wraps a Transport with bounded rate-limit retries and a
// post-success cooldown. It is the single choke point for outbound calls.
type RetryingClient struct {
	transport       Transport
	logger          *zap.Logger
	sleeper         Sleeper
	observer        CallEventObserver
	maximumAttempts int
	successCooldown time.Duration
}

// NewRetryingClient constructs a RetryingClient around the provided transport.
func NewRetryingClient(transport Transport, logger *zap.Logger, settings RetrySettings) (*RetryingClient, error) {
	if transport == nil {
		return nil, ErrTransportNotConfigured
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	maximumAttempts := settings.MaximumAttempts
	if maximumAttempts <= 0 {
		maximumAttempts = defaultMaximumAttemptsConstant
	}

	successCooldown := settings.SuccessCooldown
	if successCooldown <= 0 {
		successCooldown = defaultSuccessCooldownConstant
	}

	sleeper := settings.Sleeper
	if sleeper == nil {
		sleeper = SystemSleeper{}
	}

	observer := settings.Observer
	if observer == nil {
		observer = noopCallEventObserver{}
	}

	return &RetryingClient{
		transport:       transport,
		logger:          logger,
		sleeper:         sleeper,
		observer:        observer,
		maximumAttempts: maximumAttempts,
		successCooldown: successCooldown,
	}, nil
}

// Invoke performs one logical endpoint call, retrying only on rate limiting and
// honoring the server-provided wait duration between attempts. Every resolved
// call, successful or not, is followed by the configured cooldown so bursts do
// not trip the remote rate limiter.
func (client *RetryingClient) Invoke(executionContext context.Context, endpointName string, parameters map[string]string, verb CallVerb) (json.RawMessage, error) {
	for attemptNumber := 1; attemptNumber <= client.maximumAttempts; attemptNumber++ {
		client.observer.CallStarted(endpointName, attemptNumber)

		outcome := client.transport.Call(executionContext, endpointName, parameters, verb)
		client.observer.CallCompleted(endpointName, outcome)

		switch outcome.Kind {
		case OutcomeKindSuccess:
			client.logger.Debug(
				callSucceededLogMessageConstant,
				zap.String(logFieldEndpointNameConstant, endpointName),
				zap.Int(logFieldAttemptNumberConstant, attemptNumber),
			)
			client.sleeper.Sleep(executionContext, client.successCooldown)
			return outcome.Payload, nil

		case OutcomeKindApplicationError:
			client.logger.Debug(
				applicationErrorLogMessageConstant,
				zap.String(logFieldEndpointNameConstant, endpointName),
				zap.String(logFieldApplicationErrorCodeConstant, outcome.ApplicationCode),
			)
			client.sleeper.Sleep(executionContext, client.successCooldown)
			return nil, APIError{Endpoint: endpointName, Code: outcome.ApplicationCode}

		case OutcomeKindTransportError:
			client.logger.Warn(
				transportFailureLogMessageConstant,
				zap.String(logFieldEndpointNameConstant, endpointName),
				zap.Error(outcome.TransportFailure),
			)
			return nil, CallFailedError{Endpoint: endpointName, Cause: outcome.TransportFailure}

		case OutcomeKindRateLimited:
			client.logger.Warn(
				rateLimitedLogMessageConstant,
				zap.String(logFieldEndpointNameConstant, endpointName),
				zap.Int(logFieldAttemptNumberConstant, attemptNumber),
				zap.Int(logFieldMaximumAttemptsConstant, client.maximumAttempts),
				zap.Duration(logFieldWaitDurationConstant, outcome.RetryAfter),
			)
			client.observer.CallRateLimited(endpointName, attemptNumber, client.maximumAttempts, outcome.RetryAfter)
			if attemptNumber < client.maximumAttempts {
				client.sleeper.Sleep(executionContext, outcome.RetryAfter)
			}
		}
	}

	return nil, RateLimitExhaustedError{Endpoint: endpointName, Attempts: client.maximumAttempts}
}
