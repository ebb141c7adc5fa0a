// Package audit implements channel discovery, membership normalization, and
// activity reporting workflows used by the slackaudit CLI.
//
// It exposes CommandBuilder for wiring the audit Cobra command, Service for
// driving the workflow programmatically, and supporting abstractions for the
// Slack API, credential, clock, and reporting collaborators.
package audit
