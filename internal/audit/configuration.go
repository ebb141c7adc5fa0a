package audit

import "strings"

// Configuration default values reused by the CLI wiring.
const (
	DefaultDormantThresholdDays     = defaultDormantThresholdDaysConstant
	DefaultAPICallDelaySeconds      = 1.0
	DefaultMaximumAttempts          = 5
	DefaultOutputDirectory          = "tmp_output"
	targetUserEmailConfigKeySuffix  = ".target_user_email"
	channelPrefixesConfigKeySuffix  = ".channel_prefixes"
	dormantThresholdConfigKeySuffix = ".dormant_threshold_days"
	apiCallDelayConfigKeySuffix     = ".api_call_delay_seconds"
	maximumAttemptsConfigKeySuffix  = ".max_attempts"
	outputDirectoryConfigKeySuffix  = ".output_directory"
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	TargetUserEmail      string   `mapstructure:"target_user_email"`
	ChannelPrefixes      []string `mapstructure:"channel_prefixes"`
	DormantThresholdDays int      `mapstructure:"dormant_threshold_days"`
	APICallDelaySeconds  float64  `mapstructure:"api_call_delay_seconds"`
	MaximumAttempts      int      `mapstructure:"max_attempts"`
	OutputDirectory      string   `mapstructure:"output_directory"`
	Debug                bool     `mapstructure:"debug"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ChannelPrefixes:      append([]string{}, defaultChannelPrefixes...),
		DormantThresholdDays: DefaultDormantThresholdDays,
		APICallDelaySeconds:  DefaultAPICallDelaySeconds,
		MaximumAttempts:      DefaultMaximumAttempts,
		OutputDirectory:      DefaultOutputDirectory,
	}
}

// DefaultConfigurationValues exposes the baseline values keyed for the
// configuration loader under the provided configuration prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + targetUserEmailConfigKeySuffix:  defaults.TargetUserEmail,
		configurationKeyPrefix + channelPrefixesConfigKeySuffix:  defaults.ChannelPrefixes,
		configurationKeyPrefix + dormantThresholdConfigKeySuffix: defaults.DormantThresholdDays,
		configurationKeyPrefix + apiCallDelayConfigKeySuffix:     defaults.APICallDelaySeconds,
		configurationKeyPrefix + maximumAttemptsConfigKeySuffix:  defaults.MaximumAttempts,
		configurationKeyPrefix + outputDirectoryConfigKeySuffix:  defaults.OutputDirectory,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.TargetUserEmail = strings.TrimSpace(configuration.TargetUserEmail)
	sanitized.ChannelPrefixes = sanitizePrefixes(configuration.ChannelPrefixes)
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)

	if sanitized.DormantThresholdDays <= 0 {
		sanitized.DormantThresholdDays = DefaultDormantThresholdDays
	}
	if sanitized.APICallDelaySeconds <= 0 {
		sanitized.APICallDelaySeconds = DefaultAPICallDelaySeconds
	}
	if sanitized.MaximumAttempts <= 0 {
		sanitized.MaximumAttempts = DefaultMaximumAttempts
	}
	if len(sanitized.OutputDirectory) == 0 {
		sanitized.OutputDirectory = DefaultOutputDirectory
	}

	return sanitized
}

func sanitizePrefixes(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	if len(sanitized) == 0 {
		return append([]string{}, defaultChannelPrefixes...)
	}
	return sanitized
}
