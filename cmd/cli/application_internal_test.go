package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n" +
		"  log_level: debug\n" +
		"  log_format: console\n" +
		"tools:\n" +
		"  audit:\n" +
		"    target_user_email: person@example.com\n" +
		"    channel_prefixes:\n" +
		"      - team-\n" +
		"    dormant_threshold_days: 30\n" +
		"    api_call_delay_seconds: 0.5\n" +
		"    max_attempts: 3\n" +
		"    output_directory: reports\n"
)

func TestApplicationRegistersAuditCommand(testInstance *testing.T) {
	application := NewApplication()

	auditCommand, _, lookupError := application.rootCommand.Find([]string{"audit"})

	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, "audit", auditCommand.Name())
}

func TestApplicationInitializeConfigurationDefaults(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	testInstance.Chdir(workingDirectory)

	application := NewApplication()

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "info", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
	require.Equal(testInstance, []string{"proj-", "proj_"}, application.configuration.Tools.Audit.ChannelPrefixes)
	require.Equal(testInstance, 90, application.configuration.Tools.Audit.DormantThresholdDays)
	require.Equal(testInstance, 5, application.configuration.Tools.Audit.MaximumAttempts)
	require.Equal(testInstance, "tmp_output", application.configuration.Tools.Audit.OutputDirectory)
}

func TestApplicationInitializeConfigurationFromFile(testInstance *testing.T) {
	configurationFilePath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testConfigurationContentConstant), 0o600))

	application := NewApplication()
	application.configurationFilePath = configurationFilePath

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
	require.True(testInstance, application.humanReadableLoggingEnabled())
	require.Equal(testInstance, "person@example.com", application.configuration.Tools.Audit.TargetUserEmail)
	require.Equal(testInstance, []string{"team-"}, application.configuration.Tools.Audit.ChannelPrefixes)
	require.Equal(testInstance, 30, application.configuration.Tools.Audit.DormantThresholdDays)
	require.Equal(testInstance, 0.5, application.configuration.Tools.Audit.APICallDelaySeconds)
	require.Equal(testInstance, 3, application.configuration.Tools.Audit.MaximumAttempts)
	require.Equal(testInstance, "reports", application.configuration.Tools.Audit.OutputDirectory)
	require.Equal(testInstance, configurationFilePath, application.configurationMetadata.ConfigFileUsed)
}

func TestApplicationInitializeConfigurationEnvironmentOverrides(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	testInstance.Chdir(workingDirectory)
	testInstance.Setenv("SLACKAUDIT_TOOLS_AUDIT_MAX_ATTEMPTS", "7")
	testInstance.Setenv("SLACKAUDIT_COMMON_LOG_LEVEL", "warn")

	application := NewApplication()

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, 7, application.configuration.Tools.Audit.MaximumAttempts)
	require.Equal(testInstance, "warn", application.configuration.Common.LogLevel)
}

func TestApplicationFlagOverridesLogSettings(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	testInstance.Chdir(workingDirectory)

	application := NewApplication()
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "error"))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "error", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
}

func TestApplicationRunRootCommandShowsHelp(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	testInstance.Chdir(workingDirectory)

	application := NewApplication()
	application.rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())
}
