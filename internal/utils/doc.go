// Package utils exposes reusable helpers consumed by the CLI wiring.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging, plus small writer
// and context helpers shared across commands.
package utils
