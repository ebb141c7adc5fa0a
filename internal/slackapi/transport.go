package slackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURLConstant               = "https://slack.com/api/"
	authorizationHeaderNameConstant      = "Authorization"
	authorizationHeaderTemplateConstant  = "Bearer %s"
	contentTypeHeaderNameConstant        = "Content-Type"
	jsonContentTypeValueConstant         = "application/json; charset=utf-8"
	retryAfterHeaderNameConstant         = "Retry-After"
	defaultRetryAfterSecondsConstant     = 60
	queryStringSeparatorConstant         = "?"
	credentialRequiredMessageConstant    = "credential token must be provided"
	endpointRequiredMessageConstant      = "endpoint name must be provided"
	requestCreationErrorTemplateConstant = "building %s request failed: %w"
	requestExecutionErrorTemplate        = "calling %s failed: %w"
	responseReadErrorTemplateConstant    = "reading %s response failed: %w"
	responseDecodeErrorTemplateConstant  = "decoding %s response failed: %w"
	unexpectedStatusTemplateConstant     = "endpoint %s returned HTTP status %d"
	unknownApplicationErrorCodeConstant  = "unknown_error"
)

// ErrCredentialTokenMissing indicates the transport was constructed without a bearer token.
var ErrCredentialTokenMissing = errors.New(credentialRequiredMessageConstant)

// ErrEndpointNameMissing indicates a call was attempted without naming an endpoint.
var ErrEndpointNameMissing = errors.New(endpointRequiredMessageConstant)

// Transport performs a single authenticated call to a named remote endpoint.
type Transport interface {
	Call(executionContext context.Context, endpointName string, parameters map[string]string, verb CallVerb) Outcome
}

// HTTPTransport implements Transport against the Slack Web API over HTTP.
type HTTPTransport struct {
	credentialToken string
	baseURL         string
	httpClient      *http.Client
}

// NewHTTPTransport constructs an HTTPTransport using the provided bearer token.
// A nil client falls back to http.DefaultClient and an empty base URL falls back
// to the public Slack Web API address.
func NewHTTPTransport(credentialToken string, baseURL string, httpClient *http.Client) (*HTTPTransport, error) {
	trimmedToken := strings.TrimSpace(credentialToken)
	if len(trimmedToken) == 0 {
		return nil, ErrCredentialTokenMissing
	}

	resolvedBaseURL := strings.TrimSpace(baseURL)
	if len(resolvedBaseURL) == 0 {
		resolvedBaseURL = defaultBaseURLConstant
	}
	if !strings.HasSuffix(resolvedBaseURL, "/") {
		resolvedBaseURL += "/"
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPTransport{
		credentialToken: trimmedToken,
		baseURL:         resolvedBaseURL,
		httpClient:      httpClient,
	}, nil
}

// Call executes one authenticated request and classifies the result.
func (transport *HTTPTransport) Call(executionContext context.Context, endpointName string, parameters map[string]string, verb CallVerb) Outcome {
	trimmedEndpointName := strings.TrimSpace(endpointName)
	if len(trimmedEndpointName) == 0 {
		return TransportErrorOutcome(ErrEndpointNameMissing)
	}

	request, requestError := transport.buildRequest(executionContext, trimmedEndpointName, parameters, verb)
	if requestError != nil {
		return TransportErrorOutcome(fmt.Errorf(requestCreationErrorTemplateConstant, trimmedEndpointName, requestError))
	}

	response, executionError := transport.httpClient.Do(request)
	if executionError != nil {
		return TransportErrorOutcome(fmt.Errorf(requestExecutionErrorTemplate, trimmedEndpointName, executionError))
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode == http.StatusTooManyRequests {
		return RateLimitedOutcome(resolveRetryAfter(response.Header.Get(retryAfterHeaderNameConstant)))
	}

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return TransportErrorOutcome(fmt.Errorf(responseReadErrorTemplateConstant, trimmedEndpointName, readError))
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return TransportErrorOutcome(fmt.Errorf(unexpectedStatusTemplateConstant, trimmedEndpointName, response.StatusCode))
	}

	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if decodeError := json.Unmarshal(responseBody, &envelope); decodeError != nil {
		return TransportErrorOutcome(fmt.Errorf(responseDecodeErrorTemplateConstant, trimmedEndpointName, decodeError))
	}

	if !envelope.OK {
		applicationCode := strings.TrimSpace(envelope.Error)
		if len(applicationCode) == 0 {
			applicationCode = unknownApplicationErrorCodeConstant
		}
		return ApplicationErrorOutcome(applicationCode)
	}

	return SuccessOutcome(json.RawMessage(responseBody))
}

func (transport *HTTPTransport) buildRequest(executionContext context.Context, endpointName string, parameters map[string]string, verb CallVerb) (*http.Request, error) {
	endpointURL := transport.baseURL + endpointName

	var request *http.Request
	var requestError error

	switch verb {
	case CallVerbAction:
		encodedBody, encodeError := json.Marshal(normalizeParameters(parameters))
		if encodeError != nil {
			return nil, encodeError
		}
		request, requestError = http.NewRequestWithContext(executionContext, http.MethodPost, endpointURL, bytes.NewReader(encodedBody))
		if requestError != nil {
			return nil, requestError
		}
		request.Header.Set(contentTypeHeaderNameConstant, jsonContentTypeValueConstant)
	default:
		if len(parameters) > 0 {
			queryValues := url.Values{}
			for parameterName, parameterValue := range parameters {
				queryValues.Set(parameterName, parameterValue)
			}
			endpointURL += queryStringSeparatorConstant + queryValues.Encode()
		}
		request, requestError = http.NewRequestWithContext(executionContext, http.MethodGet, endpointURL, nil)
		if requestError != nil {
			return nil, requestError
		}
	}

	request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, transport.credentialToken))
	return request, nil
}

func normalizeParameters(parameters map[string]string) map[string]string {
	if parameters == nil {
		return map[string]string{}
	}
	return parameters
}

func resolveRetryAfter(headerValue string) time.Duration {
	trimmedHeaderValue := strings.TrimSpace(headerValue)
	if len(trimmedHeaderValue) > 0 {
		if parsedSeconds, parseError := strconv.Atoi(trimmedHeaderValue); parseError == nil && parsedSeconds > 0 {
			return time.Duration(parsedSeconds) * time.Second
		}
	}
	return defaultRetryAfterSecondsConstant * time.Second
}
