package ui

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/slackaudit/internal/slackapi"
)

const (
	callStartedMessageTemplateConstant     = "Calling %s"
	callSucceededMessageTemplateConstant   = "Completed %s"
	callApplicationErrorTemplateConstant   = "%s reported %s"
	callTransportFailureTemplateConstant   = "%s failed: %s"
	callRateLimitedMessageTemplateConstant = "Rate limited on %s (attempt %d/%d); server asked to wait %s"
	unknownFailureMessageConstant          = "unknown error"
)

// CallEventFormatter builds human-readable messages for API call lifecycle events.
type CallEventFormatter struct{}

// BuildStartedMessage formats the message describing a call about to run.
func (formatter CallEventFormatter) BuildStartedMessage(endpointName string) string {
	return fmt.Sprintf(callStartedMessageTemplateConstant, endpointName)
}

// BuildSuccessMessage formats the message describing a successfully completed call.
func (formatter CallEventFormatter) BuildSuccessMessage(endpointName string) string {
	return fmt.Sprintf(callSucceededMessageTemplateConstant, endpointName)
}

// BuildApplicationErrorMessage formats the message describing a named remote failure.
func (formatter CallEventFormatter) BuildApplicationErrorMessage(endpointName string, applicationCode string) string {
	return fmt.Sprintf(callApplicationErrorTemplateConstant, endpointName, applicationCode)
}

// BuildTransportFailureMessage formats the message describing a connection failure.
func (formatter CallEventFormatter) BuildTransportFailureMessage(endpointName string, transportFailure error) string {
	failureMessage := unknownFailureMessageConstant
	if transportFailure != nil {
		failureMessage = transportFailure.Error()
	}
	return fmt.Sprintf(callTransportFailureTemplateConstant, endpointName, failureMessage)
}

// BuildRateLimitedMessage formats the message describing an imposed wait.
func (formatter CallEventFormatter) BuildRateLimitedMessage(endpointName string, attemptNumber int, maximumAttempts int, waitDuration time.Duration) string {
	return fmt.Sprintf(callRateLimitedMessageTemplateConstant, endpointName, attemptNumber, maximumAttempts, waitDuration)
}

// ConsoleCallEventLogger renders API call lifecycle events using a zap logger
// configured for human-readable output.
type ConsoleCallEventLogger struct {
	logger    *zap.Logger
	formatter CallEventFormatter
}

// NewConsoleCallEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCallEventLogger(logger *zap.Logger) *ConsoleCallEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCallEventLogger{logger: logger, formatter: CallEventFormatter{}}
}

// CallStarted implements slackapi.CallEventObserver by logging call start notifications.
func (eventLogger *ConsoleCallEventLogger) CallStarted(endpointName string, attemptNumber int) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildStartedMessage(endpointName))
}

// CallCompleted implements slackapi.CallEventObserver by logging the classified outcome.
func (eventLogger *ConsoleCallEventLogger) CallCompleted(endpointName string, outcome slackapi.Outcome) {
	if eventLogger == nil {
		return
	}
	switch outcome.Kind {
	case slackapi.OutcomeKindSuccess:
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(endpointName))
	case slackapi.OutcomeKindApplicationError:
		eventLogger.logger.Warn(eventLogger.formatter.BuildApplicationErrorMessage(endpointName, outcome.ApplicationCode))
	case slackapi.OutcomeKindTransportError:
		eventLogger.logger.Error(eventLogger.formatter.BuildTransportFailureMessage(endpointName, outcome.TransportFailure))
	}
}

// CallRateLimited implements slackapi.CallEventObserver by logging the imposed wait.
func (eventLogger *ConsoleCallEventLogger) CallRateLimited(endpointName string, attemptNumber int, maximumAttempts int, waitDuration time.Duration) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildRateLimitedMessage(endpointName, attemptNumber, maximumAttempts, waitDuration))
}
