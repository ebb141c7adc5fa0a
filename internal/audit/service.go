package audit

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/temirov/slackaudit/internal/slackapi"
)

const (
	discoveryFailedTemplateConstant    = "channel discovery failed: %w"
	discoveryPartialTemplateConstant   = "channel discovery incomplete, continuing with %d channels: %v\n"
	lookupFailureTemplateConstant      = "target user lookup failed for %s, membership checks skipped: %v\n"
	lookupEmptyIdentifierTemplate      = "target user lookup returned no identifier for %s, membership checks skipped\n"
	joinFailureTemplateConstant        = "join failed for #%s: %v\n"
	historyFailureTemplateConstant     = "history fetch failed for #%s: %v\n"
	timestampFailureTemplateConstant   = "history timestamp unreadable for #%s: %v\n"
	membersFailureTemplateConstant     = "member list fetch failed for #%s: %v\n"
	debugDiscoveredTemplateConstant    = "DEBUG: discovered %d channels, %d candidates\n"
	debugAuditingTemplateConstant      = "DEBUG: auditing [%d/%d] #%s\n"
	debugJoinSucceededTemplateConstant = "DEBUG: joined #%s\n"
)

// Service coordinates channel discovery, membership normalization, and
// per-channel audit fact derivation.
type Service struct {
	directory      ChannelDirectory
	joiner         ChannelJoiner
	historyFetcher HistoryFetcher
	memberLister   MemberLister
	userResolver   UserResolver
	outputWriter   io.Writer
	errorWriter    io.Writer
	clock          Clock
}

// NewService constructs a Service using the provided dependencies.
func NewService(directory ChannelDirectory, joiner ChannelJoiner, historyFetcher HistoryFetcher, memberLister MemberLister, userResolver UserResolver, outputWriter io.Writer, errorWriter io.Writer, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		directory:      directory,
		joiner:         joiner,
		historyFetcher: historyFetcher,
		memberLister:   memberLister,
		userResolver:   userResolver,
		outputWriter:   outputWriter,
		errorWriter:    errorWriter,
		clock:          clock,
	}
}

// Run executes the audit according to the provided options and returns one
// record per candidate channel, sorted ascending by channel name. Only a total
// discovery failure aborts the run; every other failure degrades the affected
// record's fields to explicit sentinels.
func (service *Service) Run(executionContext context.Context, options CommandOptions) ([]AuditRecord, error) {
	referenceTime := options.ReferenceTime
	if referenceTime.IsZero() {
		referenceTime = service.clock.Now()
	}

	targetUserID := service.resolveTargetUser(executionContext, options.TargetUserEmail)

	channels, discoveryError := service.directory.ListChannels(executionContext)
	if discoveryError != nil {
		if len(channels) == 0 {
			return nil, fmt.Errorf(discoveryFailedTemplateConstant, discoveryError)
		}
		fmt.Fprintf(service.errorWriter, discoveryPartialTemplateConstant, len(channels), discoveryError)
	}

	candidates := filterCandidates(channels, options.ChannelPrefixes)

	if options.DebugOutput {
		fmt.Fprintf(service.errorWriter, debugDiscoveredTemplateConstant, len(channels), len(candidates))
	}

	records := make([]AuditRecord, 0, len(candidates))
	for candidateIndex, candidate := range candidates {
		if options.DebugOutput {
			fmt.Fprintf(service.errorWriter, debugAuditingTemplateConstant, candidateIndex+1, len(candidates), candidate.Name)
		}
		records = append(records, service.auditChannel(executionContext, candidate, targetUserID, referenceTime, options))
	}

	sort.Slice(records, func(firstIndex int, secondIndex int) bool {
		return records[firstIndex].Name < records[secondIndex].Name
	})

	return records, nil
}

// resolveTargetUser returns the target user's identifier, or an empty string
// when the email is unset or the lookup fails. An empty identifier disables
// membership checks for the whole run without aborting it.
func (service *Service) resolveTargetUser(executionContext context.Context, targetUserEmail string) string {
	trimmedEmail := strings.TrimSpace(targetUserEmail)
	if len(trimmedEmail) == 0 {
		return ""
	}

	targetUserID, lookupError := service.userResolver.LookupUserByEmail(executionContext, trimmedEmail)
	if lookupError != nil {
		fmt.Fprintf(service.errorWriter, lookupFailureTemplateConstant, trimmedEmail, lookupError)
		return ""
	}
	if len(strings.TrimSpace(targetUserID)) == 0 {
		fmt.Fprintf(service.errorWriter, lookupEmptyIdentifierTemplate, trimmedEmail)
		return ""
	}
	return targetUserID
}

func (service *Service) auditChannel(executionContext context.Context, channel slackapi.Channel, targetUserID string, referenceTime time.Time, options CommandOptions) AuditRecord {
	botIsMember := channel.IsMember

	if !botIsMember && !channel.IsPrivate {
		if joinError := service.joiner.JoinChannel(executionContext, channel.ID); joinError != nil {
			fmt.Fprintf(service.errorWriter, joinFailureTemplateConstant, channel.Name, joinError)
		} else {
			botIsMember = true
			if options.DebugOutput {
				fmt.Fprintf(service.errorWriter, debugJoinSucceededTemplateConstant, channel.Name)
			}
		}
	}

	lastActive := ActivityDescriptorUnknown
	dormant := DormancyVerdictUnknown
	targetMembership := MembershipStatusNotApplicable

	switch {
	case botIsMember:
		lastActive, dormant = service.deriveActivity(executionContext, channel, referenceTime, options.DormantThresholdDays)
		if len(targetUserID) > 0 {
			targetMembership = service.deriveTargetMembership(executionContext, channel, targetUserID)
		}
	case channel.IsPrivate:
		lastActive = ActivityDescriptorPrivate
		dormant = DormancyVerdictNotApplicable
		targetMembership = MembershipStatusNotApplicablePrivate
	}

	return AuditRecord{
		Name:                 channel.Name,
		ChannelID:            channel.ID,
		BotIsMember:          botIsMember,
		TargetUserMembership: targetMembership,
		MemberCount:          channel.MemberCount,
		Dormant:              dormant,
		LastActive:           lastActive,
	}
}

// deriveActivity classifies the channel's most recent message against the
// reference time. A channel with no recorded messages is dormant by policy,
// not merely unknown.
func (service *Service) deriveActivity(executionContext context.Context, channel slackapi.Channel, referenceTime time.Time, thresholdDays int) (ActivityDescriptor, DormancyVerdict) {
	latestMessage, historyError := service.historyFetcher.FetchLatestMessage(executionContext, channel.ID)
	if historyError != nil {
		fmt.Fprintf(service.errorWriter, historyFailureTemplateConstant, channel.Name, historyError)
		return ActivityDescriptorUnknown, DormancyVerdictUnknown
	}

	if latestMessage == nil {
		return ActivityDescriptorNoMessages, DormancyVerdictYes
	}

	messageTime, parseError := latestMessage.Time()
	if parseError != nil {
		fmt.Fprintf(service.errorWriter, timestampFailureTemplateConstant, channel.Name, parseError)
		return ActivityDescriptorUnknown, DormancyVerdictUnknown
	}

	elapsedDays := wholeDaysBetween(messageTime, referenceTime)
	return classifyElapsedDays(elapsedDays), classifyDormancy(elapsedDays, thresholdDays)
}

// deriveTargetMembership checks the first page of member identifiers for the
// target user. A truncated page never produces a definite "No".
func (service *Service) deriveTargetMembership(executionContext context.Context, channel slackapi.Channel, targetUserID string) MembershipStatus {
	memberIdentifiers, truncated, membersError := service.memberLister.ListMemberIdentifiers(executionContext, channel.ID)
	if membersError != nil {
		fmt.Fprintf(service.errorWriter, membersFailureTemplateConstant, channel.Name, membersError)
		return MembershipStatusError
	}

	for _, memberIdentifier := range memberIdentifiers {
		if memberIdentifier == targetUserID {
			return MembershipStatusYes
		}
	}

	if truncated {
		return MembershipStatusIncomplete
	}
	return MembershipStatusNo
}
