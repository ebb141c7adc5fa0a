// Package credentials resolves the Slack bearer token consumed by the audit
// workflows from a local dotenv file or the process environment.
package credentials
