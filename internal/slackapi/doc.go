// Package slackapi provides structured access to the Slack Web API surface
// used by the channel audit workflows.
//
// It layers a classifying HTTPTransport, a rate-limit-aware RetryingClient,
// and a CursorPaginator beneath WorkspaceClient, which exposes the handful of
// conversation and user operations the auditor consumes in a testable manner.
package slackapi
