// Package report persists audit results as timestamped JSON and Markdown
// artifacts inside a configurable output directory.
package report
