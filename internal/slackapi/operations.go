package slackapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	conversationsListEndpointConstant    = "conversations.list"
	conversationsJoinEndpointConstant    = "conversations.join"
	conversationsHistoryEndpointConstant = "conversations.history"
	conversationsMembersEndpointConstant = "conversations.members"
	usersLookupByEmailEndpointConstant   = "users.lookupByEmail"

	channelTypesParameterNameConstant    = "types"
	channelTypesParameterValueConstant   = "public_channel,private_channel"
	excludeArchivedParameterNameConstant = "exclude_archived"
	excludeArchivedParameterValue        = "true"
	channelParameterNameConstant         = "channel"
	emailParameterNameConstant           = "email"
	historyPageSizeConstant              = 1
	channelListPageSizeConstant          = 1000
	memberListPageSizeConstant           = 200

	channelIdentifierRequiredMessage  = "channel identifier must be provided"
	emailRequiredMessageConstant      = "email address must be provided"
	operationDecodeErrorTemplateConst = "decoding %s payload failed: %w"
)

// ErrChannelIdentifierMissing indicates an operation was invoked without a channel.
var ErrChannelIdentifierMissing = errors.New(channelIdentifierRequiredMessage)

// ErrEmailMissing indicates a user lookup was attempted without an email address.
var ErrEmailMissing = errors.New(emailRequiredMessageConstant)

// WorkspaceClient exposes the conversation and user operations consumed by the
// channel auditor. Every call flows through the retrying invoker.
type WorkspaceClient struct {
	invoker   CallInvoker
	paginator *CursorPaginator
}

// NewWorkspaceClient constructs a WorkspaceClient around the provided invoker.
func NewWorkspaceClient(invoker CallInvoker) (*WorkspaceClient, error) {
	if invoker == nil {
		return nil, ErrInvokerNotConfigured
	}

	paginator, paginatorError := NewCursorPaginator(invoker)
	if paginatorError != nil {
		return nil, paginatorError
	}

	return &WorkspaceClient{invoker: invoker, paginator: paginator}, nil
}

// ListChannels enumerates every unarchived channel visible to the credential,
// following pagination cursors. When a page fails the channels accumulated so
// far are returned together with the error.
func (client *WorkspaceClient) ListChannels(executionContext context.Context) ([]Channel, error) {
	baseParameters := map[string]string{
		channelTypesParameterNameConstant:    channelTypesParameterValueConstant,
		excludeArchivedParameterNameConstant: excludeArchivedParameterValue,
	}

	var collectedChannels []Channel
	paginationError := client.paginator.CollectAllPages(executionContext, conversationsListEndpointConstant, baseParameters, channelListPageSizeConstant, func(pagePayload json.RawMessage) error {
		var page struct {
			Channels []Channel `json:"channels"`
		}
		if decodeError := json.Unmarshal(pagePayload, &page); decodeError != nil {
			return fmt.Errorf(operationDecodeErrorTemplateConst, conversationsListEndpointConstant, decodeError)
		}
		collectedChannels = append(collectedChannels, page.Channels...)
		return nil
	})

	return collectedChannels, paginationError
}

// JoinChannel joins the caller's identity to a public channel.
func (client *WorkspaceClient) JoinChannel(executionContext context.Context, channelID string) error {
	trimmedChannelID := strings.TrimSpace(channelID)
	if len(trimmedChannelID) == 0 {
		return ErrChannelIdentifierMissing
	}

	parameters := map[string]string{channelParameterNameConstant: trimmedChannelID}
	_, invokeError := client.invoker.Invoke(executionContext, conversationsJoinEndpointConstant, parameters, CallVerbAction)
	return invokeError
}

// FetchLatestMessage returns the single most recent message of a channel, or
// nil when the channel has no history at all.
func (client *WorkspaceClient) FetchLatestMessage(executionContext context.Context, channelID string) (*Message, error) {
	trimmedChannelID := strings.TrimSpace(channelID)
	if len(trimmedChannelID) == 0 {
		return nil, ErrChannelIdentifierMissing
	}

	parameters := map[string]string{
		channelParameterNameConstant: trimmedChannelID,
		limitParameterNameConstant:   strconv.Itoa(historyPageSizeConstant),
	}

	payload, invokeError := client.invoker.Invoke(executionContext, conversationsHistoryEndpointConstant, parameters, CallVerbQuery)
	if invokeError != nil {
		return nil, invokeError
	}

	var page struct {
		Messages []Message `json:"messages"`
	}
	if decodeError := json.Unmarshal(payload, &page); decodeError != nil {
		return nil, fmt.Errorf(operationDecodeErrorTemplateConst, conversationsHistoryEndpointConstant, decodeError)
	}

	if len(page.Messages) == 0 {
		return nil, nil
	}

	latestMessage := page.Messages[0]
	return &latestMessage, nil
}

// ListMemberIdentifiers fetches the first page of member identifiers for a
// channel. The second return value reports whether the server indicated more
// pages exist, so callers can avoid presenting a truncated page as complete.
func (client *WorkspaceClient) ListMemberIdentifiers(executionContext context.Context, channelID string) ([]string, bool, error) {
	trimmedChannelID := strings.TrimSpace(channelID)
	if len(trimmedChannelID) == 0 {
		return nil, false, ErrChannelIdentifierMissing
	}

	parameters := map[string]string{
		channelParameterNameConstant: trimmedChannelID,
		limitParameterNameConstant:   strconv.Itoa(memberListPageSizeConstant),
	}

	payload, invokeError := client.invoker.Invoke(executionContext, conversationsMembersEndpointConstant, parameters, CallVerbQuery)
	if invokeError != nil {
		return nil, false, invokeError
	}

	var page struct {
		Members          []string `json:"members"`
		ResponseMetadata struct {
			NextCursor string `json:"next_cursor"`
		} `json:"response_metadata"`
	}
	if decodeError := json.Unmarshal(payload, &page); decodeError != nil {
		return nil, false, fmt.Errorf(operationDecodeErrorTemplateConst, conversationsMembersEndpointConstant, decodeError)
	}

	truncated := len(strings.TrimSpace(page.ResponseMetadata.NextCursor)) > 0
	return page.Members, truncated, nil
}

// LookupUserByEmail resolves a user's opaque identifier from an email address.
func (client *WorkspaceClient) LookupUserByEmail(executionContext context.Context, email string) (string, error) {
	trimmedEmail := strings.TrimSpace(email)
	if len(trimmedEmail) == 0 {
		return "", ErrEmailMissing
	}

	parameters := map[string]string{emailParameterNameConstant: trimmedEmail}
	payload, invokeError := client.invoker.Invoke(executionContext, usersLookupByEmailEndpointConstant, parameters, CallVerbQuery)
	if invokeError != nil {
		return "", invokeError
	}

	var response struct {
		User User `json:"user"`
	}
	if decodeError := json.Unmarshal(payload, &response); decodeError != nil {
		return "", fmt.Errorf(operationDecodeErrorTemplateConst, usersLookupByEmailEndpointConstant, decodeError)
	}

	return response.User.ID, nil
}
