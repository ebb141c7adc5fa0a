package cli_test

import (
	"testing"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/temirov/slackaudit/cmd/cli"
)

func TestApplicationConfigurationDecoding(testInstance *testing.T) {
	rawConfiguration := map[string]any{
		"common": map[string]any{
			"log_level":  "debug",
			"log_format": "console",
		},
		"tools": map[string]any{
			"audit": map[string]any{
				"target_user_email":      "person@example.com",
				"channel_prefixes":       []string{"proj-", "team-"},
				"dormant_threshold_days": 45,
				"api_call_delay_seconds": 2.0,
				"max_attempts":           4,
				"output_directory":       "reports",
				"debug":                  true,
			},
		},
	}

	decodedConfiguration := cli.ApplicationConfiguration{}
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &decodedConfiguration})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(rawConfiguration))

	require.Equal(testInstance, "debug", decodedConfiguration.Common.LogLevel)
	require.Equal(testInstance, "console", decodedConfiguration.Common.LogFormat)
	require.Equal(testInstance, "person@example.com", decodedConfiguration.Tools.Audit.TargetUserEmail)
	require.Equal(testInstance, []string{"proj-", "team-"}, decodedConfiguration.Tools.Audit.ChannelPrefixes)
	require.Equal(testInstance, 45, decodedConfiguration.Tools.Audit.DormantThresholdDays)
	require.Equal(testInstance, 2.0, decodedConfiguration.Tools.Audit.APICallDelaySeconds)
	require.Equal(testInstance, 4, decodedConfiguration.Tools.Audit.MaximumAttempts)
	require.Equal(testInstance, "reports", decodedConfiguration.Tools.Audit.OutputDirectory)
	require.True(testInstance, decodedConfiguration.Tools.Audit.Debug)
}
