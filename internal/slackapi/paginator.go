package slackapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const (
	cursorParameterNameConstant      = "cursor"
	limitParameterNameConstant       = "limit"
	defaultMaximumPageCountConstant  = 1000
	invokerNotConfiguredMessage      = "call invoker not configured"
	pageFailureTemplateConstant      = "endpoint %s page %d failed: %s"
	pageLimitExceededMessageConstant = "pagination aborted: maximum page count reached without a terminating cursor"
)

// ErrInvokerNotConfigured indicates the paginator was constructed without an invoker.
var ErrInvokerNotConfigured = errors.New(invokerNotConfiguredMessage)

// ErrPageLimitExceeded guards against a server that never stops issuing cursors.
var ErrPageLimitExceeded = errors.New(pageLimitExceededMessageConstant)

// CallInvoker is the minimal interface required from RetryingClient.
type CallInvoker interface {
	Invoke(executionContext context.Context, endpointName string, parameters map[string]string, verb CallVerb) (json.RawMessage, error)
}

// PageConsumer decodes one successful page payload and accumulates its items.
type PageConsumer func(pagePayload json.RawMessage) error

// PageFailureError wraps the failure of one pagination step.
type PageFailureError struct {
	Endpoint   string
	PageNumber int
	Cause      error
}

// Error describes the failed page fetch.
func (pageError PageFailureError) Error() string {
	return fmt.Sprintf(pageFailureTemplateConstant, pageError.Endpoint, pageError.PageNumber, pageError.Cause)
}

// Unwrap exposes the underlying cause.
func (pageError PageFailureError) Unwrap() error {
	return pageError.Cause
}

// CursorPaginator drives repeated invocations using server-issued cursors until
// the server stops returning one.
type CursorPaginator struct {
	invoker          CallInvoker
	maximumPageCount int
}

// NewCursorPaginator constructs a paginator around the provided invoker.
func NewCursorPaginator(invoker CallInvoker) (*CursorPaginator, error) {
	if invoker == nil {
		return nil, ErrInvokerNotConfigured
	}
	return &CursorPaginator{invoker: invoker, maximumPageCount: defaultMaximumPageCountConstant}, nil
}

// CollectAllPages fetches every page of a cursor-paginated endpoint, handing each
// successful payload to the consumer in server page order. When a page fails the
// error is returned and everything the consumer accumulated so far stands.
func (paginator *CursorPaginator) CollectAllPages(executionContext context.Context, endpointName string, baseParameters map[string]string, pageSize int, consumer PageConsumer) error {
	nextCursor := ""

	for pageNumber := 1; pageNumber <= paginator.maximumPageCount; pageNumber++ {
		pageParameters := make(map[string]string, len(baseParameters)+2)
		for parameterName, parameterValue := range baseParameters {
			pageParameters[parameterName] = parameterValue
		}
		if pageSize > 0 {
			pageParameters[limitParameterNameConstant] = strconv.Itoa(pageSize)
		}
		if len(nextCursor) > 0 {
			pageParameters[cursorParameterNameConstant] = nextCursor
		}

		pagePayload, invokeError := paginator.invoker.Invoke(executionContext, endpointName, pageParameters, CallVerbQuery)
		if invokeError != nil {
			return PageFailureError{Endpoint: endpointName, PageNumber: pageNumber, Cause: invokeError}
		}

		if consumeError := consumer(pagePayload); consumeError != nil {
			return PageFailureError{Endpoint: endpointName, PageNumber: pageNumber, Cause: consumeError}
		}

		nextCursor = extractNextCursor(pagePayload)
		if len(nextCursor) == 0 {
			return nil
		}
	}

	return ErrPageLimitExceeded
}

func extractNextCursor(pagePayload json.RawMessage) string {
	var envelope struct {
		ResponseMetadata struct {
			NextCursor string `json:"next_cursor"`
		} `json:"response_metadata"`
	}
	if decodeError := json.Unmarshal(pagePayload, &envelope); decodeError != nil {
		return ""
	}
	return envelope.ResponseMetadata.NextCursor
}
