package audit

import "time"

// MembershipStatus describes whether the target user belongs to a channel.
type MembershipStatus string

// Supported membership status values.
const (
	MembershipStatusYes                  MembershipStatus = "Yes"
	MembershipStatusNo                   MembershipStatus = "No"
	MembershipStatusError                MembershipStatus = "Error"
	MembershipStatusIncomplete           MembershipStatus = "No (first page only)"
	MembershipStatusNotApplicable        MembershipStatus = "N/A"
	MembershipStatusNotApplicablePrivate MembershipStatus = "N/A (Private)"
)

// DormancyVerdict describes whether a channel is considered dormant.
type DormancyVerdict string

// Supported dormancy verdicts.
const (
	DormancyVerdictYes           DormancyVerdict = "Yes"
	DormancyVerdictNo            DormancyVerdict = "No"
	DormancyVerdictUnknown       DormancyVerdict = "Unknown"
	DormancyVerdictNotApplicable DormancyVerdict = "N/A"
)

// ActivityDescriptor classifies the recency of a channel's last message.
type ActivityDescriptor string

// Fixed activity descriptors; elapsed-day descriptors are formatted on demand.
const (
	ActivityDescriptorToday      ActivityDescriptor = "Today"
	ActivityDescriptorYesterday  ActivityDescriptor = "Yesterday"
	ActivityDescriptorNoMessages ActivityDescriptor = "No messages"
	ActivityDescriptorUnknown    ActivityDescriptor = "Unknown"
	ActivityDescriptorPrivate    ActivityDescriptor = "Private"
)

// AuditRecord captures the derived facts for one candidate channel. Records
// are assembled once per run and never mutated after being appended to the
// output sequence.
type AuditRecord struct {
	Name                 string             `json:"name"`
	ChannelID            string             `json:"channel_id"`
	BotIsMember          bool               `json:"bot_is_member"`
	TargetUserMembership MembershipStatus   `json:"user_is_member"`
	MemberCount          int                `json:"members_count"`
	Dormant              DormancyVerdict    `json:"is_dormant"`
	LastActive           ActivityDescriptor `json:"last_active"`
}

// CommandOptions captures the configurable parameters for the audit command.
type CommandOptions struct {
	TargetUserEmail      string
	ChannelPrefixes      []string
	DormantThresholdDays int
	OutputDirectory      string
	DebugOutput          bool
	ReferenceTime        time.Time
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
