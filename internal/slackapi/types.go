package slackapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timestampSeparatorConstant       = "."
	timestampParseErrorTemplateConst = "invalid message timestamp %q: %w"
)

// Channel is an immutable snapshot of one conversation as reported by the server.
type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsPrivate   bool   `json:"is_private"`
	IsArchived  bool   `json:"is_archived"`
	IsMember    bool   `json:"is_member"`
	MemberCount int    `json:"num_members"`
}

// Message carries the fields of one conversation message the auditor reads.
type Message struct {
	Timestamp string `json:"ts"`
}

// Time parses the message timestamp, which the server encodes as decimal
// seconds since the Unix epoch ("1700000000.123456").
func (message Message) Time() (time.Time, error) {
	secondsField := message.Timestamp
	if separatorIndex := strings.Index(secondsField, timestampSeparatorConstant); separatorIndex >= 0 {
		secondsField = secondsField[:separatorIndex]
	}

	epochSeconds, parseError := strconv.ParseInt(strings.TrimSpace(secondsField), 10, 64)
	if parseError != nil {
		return time.Time{}, fmt.Errorf(timestampParseErrorTemplateConst, message.Timestamp, parseError)
	}

	return time.Unix(epochSeconds, 0), nil
}

// User carries the fields of one workspace user the auditor reads.
type User struct {
	ID string `json:"id"`
}
