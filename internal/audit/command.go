package audit

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/slackaudit/internal/credentials"
	"github.com/temirov/slackaudit/internal/slackapi"
	"github.com/temirov/slackaudit/internal/ui"
	"github.com/temirov/slackaudit/internal/utils"
)

const (
	commandNameConstant             = "audit"
	commandShortDescription         = "Audit project channels for activity, dormancy, and membership"
	commandLongDescription          = "Discovers every channel matching the configured name prefixes, joins public channels the bot does not belong to, derives last-activity and dormancy facts, checks the configured user's membership, and emits a sorted report."
	flagEmailNameConstant           = "email"
	flagEmailDescriptionConstant    = "Email address of the user whose channel membership is checked (empty disables the check)."
	flagPrefixNameConstant          = "prefix"
	flagPrefixDescriptionConstant   = "Channel name prefix selecting audit candidates (repeatable)."
	flagDormantDaysNameConstant     = "dormant-days"
	flagDormantDaysDescription      = "Days without a message before a channel is considered dormant."
	flagOutputDirNameConstant       = "output-dir"
	flagOutputDirDescription        = "Directory receiving the JSON and Markdown report artifacts."
	flagDebugNameConstant           = "debug"
	flagDebugDescriptionConstant    = "Emit per-channel diagnostic output."
	credentialErrorTemplateConstant = "unable to resolve Slack credential: %w"
	artifactsWrittenMessageConstant = "report artifacts written"
	logFieldJSONPathConstant        = "json_path"
	logFieldMarkdownPathConstant    = "markdown_path"
	logFieldRecordCountConstant     = "record_count"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies persistent command configuration.
type ConfigurationProvider func() CommandConfiguration

// ReportWriterProvider builds a ReportWriter targeting the given directory.
type ReportWriterProvider func(outputDirectory string) ReportWriter

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	TokenResolver                TokenResolver
	Directory                    ChannelDirectory
	Joiner                       ChannelJoiner
	HistoryFetcher               HistoryFetcher
	MemberLister                 MemberLister
	UserResolver                 UserResolver
	ReportWriterProvider         ReportWriterProvider
	Clock                        Clock
}

// Build constructs the cobra command for channel audit workflows.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaults := DefaultCommandConfiguration()

	command := &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagEmailNameConstant, defaults.TargetUserEmail, flagEmailDescriptionConstant)
	command.Flags().StringSlice(flagPrefixNameConstant, defaults.ChannelPrefixes, flagPrefixDescriptionConstant)
	command.Flags().Int(flagDormantDaysNameConstant, defaults.DormantThresholdDays, flagDormantDaysDescription)
	command.Flags().String(flagOutputDirNameConstant, defaults.OutputDirectory, flagOutputDirDescription)
	command.Flags().Bool(flagDebugNameConstant, false, flagDebugDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	configuration = builder.applyFlagOverrides(command, configuration).sanitize()

	logger := builder.resolveLogger()
	clock := builder.resolveClock()

	directory, joiner, historyFetcher, memberLister, userResolver, collaboratorError := builder.resolveCollaborators(logger, configuration)
	if collaboratorError != nil {
		return collaboratorError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	errorWriter := command.ErrOrStderr()

	service := NewService(directory, joiner, historyFetcher, memberLister, userResolver, outputWriter, errorWriter, clock)

	options := CommandOptions{
		TargetUserEmail:      configuration.TargetUserEmail,
		ChannelPrefixes:      configuration.ChannelPrefixes,
		DormantThresholdDays: configuration.DormantThresholdDays,
		OutputDirectory:      configuration.OutputDirectory,
		DebugOutput:          configuration.Debug,
	}

	records, runError := service.Run(command.Context(), options)
	if runError != nil {
		return runError
	}

	if tableError := service.WriteTable(records); tableError != nil {
		return tableError
	}

	if builder.ReportWriterProvider != nil {
		reportWriter := builder.ReportWriterProvider(configuration.OutputDirectory)
		jsonPath, markdownPath, writeError := reportWriter.WriteArtifacts(records, clock.Now())
		if writeError != nil {
			return writeError
		}
		logger.Info(
			artifactsWrittenMessageConstant,
			zap.String(logFieldJSONPathConstant, jsonPath),
			zap.String(logFieldMarkdownPathConstant, markdownPath),
			zap.Int(logFieldRecordCountConstant, len(records)),
		)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) applyFlagOverrides(command *cobra.Command, configuration CommandConfiguration) CommandConfiguration {
	if command.Flags().Changed(flagEmailNameConstant) {
		configuration.TargetUserEmail, _ = command.Flags().GetString(flagEmailNameConstant)
	}
	if command.Flags().Changed(flagPrefixNameConstant) {
		configuration.ChannelPrefixes, _ = command.Flags().GetStringSlice(flagPrefixNameConstant)
	}
	if command.Flags().Changed(flagDormantDaysNameConstant) {
		configuration.DormantThresholdDays, _ = command.Flags().GetInt(flagDormantDaysNameConstant)
	}
	if command.Flags().Changed(flagOutputDirNameConstant) {
		configuration.OutputDirectory, _ = command.Flags().GetString(flagOutputDirNameConstant)
	}
	if command.Flags().Changed(flagDebugNameConstant) {
		configuration.Debug, _ = command.Flags().GetBool(flagDebugNameConstant)
	}
	return configuration
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveClock() Clock {
	if builder.Clock == nil {
		return SystemClock{}
	}
	return builder.Clock
}

func (builder *CommandBuilder) resolveTokenResolver() TokenResolver {
	if builder.TokenResolver == nil {
		return credentials.NewResolver()
	}
	return builder.TokenResolver
}

// resolveCollaborators returns the injected collaborators, constructing a
// shared workspace client for any that are missing. The credential is resolved
// only when at least one default collaborator is required, so fully injected
// test wiring never touches the credential sources.
func (builder *CommandBuilder) resolveCollaborators(logger *zap.Logger, configuration CommandConfiguration) (ChannelDirectory, ChannelJoiner, HistoryFetcher, MemberLister, UserResolver, error) {
	directory := builder.Directory
	joiner := builder.Joiner
	historyFetcher := builder.HistoryFetcher
	memberLister := builder.MemberLister
	userResolver := builder.UserResolver

	if directory != nil && joiner != nil && historyFetcher != nil && memberLister != nil && userResolver != nil {
		return directory, joiner, historyFetcher, memberLister, userResolver, nil
	}

	workspaceClient, clientError := builder.buildWorkspaceClient(logger, configuration)
	if clientError != nil {
		return nil, nil, nil, nil, nil, clientError
	}

	if directory == nil {
		directory = workspaceClient
	}
	if joiner == nil {
		joiner = workspaceClient
	}
	if historyFetcher == nil {
		historyFetcher = workspaceClient
	}
	if memberLister == nil {
		memberLister = workspaceClient
	}
	if userResolver == nil {
		userResolver = workspaceClient
	}

	return directory, joiner, historyFetcher, memberLister, userResolver, nil
}

func (builder *CommandBuilder) buildWorkspaceClient(logger *zap.Logger, configuration CommandConfiguration) (*slackapi.WorkspaceClient, error) {
	credentialToken, credentialError := builder.resolveTokenResolver().Resolve()
	if credentialError != nil {
		return nil, fmt.Errorf(credentialErrorTemplateConstant, credentialError)
	}

	transport, transportError := slackapi.NewHTTPTransport(credentialToken, "", nil)
	if transportError != nil {
		return nil, transportError
	}

	retrySettings := slackapi.RetrySettings{
		MaximumAttempts: configuration.MaximumAttempts,
		SuccessCooldown: time.Duration(configuration.APICallDelaySeconds * float64(time.Second)),
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		retrySettings.Observer = ui.NewConsoleCallEventLogger(logger)
	}

	retryingClient, clientError := slackapi.NewRetryingClient(transport, logger, retrySettings)
	if clientError != nil {
		return nil, clientError
	}

	return slackapi.NewWorkspaceClient(retryingClient)
}
