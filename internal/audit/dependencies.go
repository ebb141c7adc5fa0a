package audit

import (
	"context"
	"time"

	"github.com/temirov/slackaudit/internal/slackapi"
)

// ChannelDirectory enumerates every unarchived channel visible to the caller.
// Implementations may return partial results together with an error when a
// pagination step fails.
type ChannelDirectory interface {
	ListChannels(executionContext context.Context) ([]slackapi.Channel, error)
}

// ChannelJoiner joins the caller's identity to a public channel.
type ChannelJoiner interface {
	JoinChannel(executionContext context.Context, channelID string) error
}

// HistoryFetcher retrieves the single most recent message of a channel, or nil
// when the channel has no history.
type HistoryFetcher interface {
	FetchLatestMessage(executionContext context.Context, channelID string) (*slackapi.Message, error)
}

// MemberLister fetches the first page of member identifiers for a channel and
// reports whether further pages exist.
type MemberLister interface {
	ListMemberIdentifiers(executionContext context.Context, channelID string) ([]string, bool, error)
}

// UserResolver resolves a user's opaque identifier from an email address.
type UserResolver interface {
	LookupUserByEmail(executionContext context.Context, email string) (string, error)
}

// TokenResolver locates the bearer credential used for all API calls.
type TokenResolver interface {
	Resolve() (string, error)
}

// ReportWriter persists the finished audit as downstream artifacts, returning
// the JSON and Markdown file paths.
type ReportWriter interface {
	WriteArtifacts(records []AuditRecord, generatedAt time.Time) (string, string, error)
}
