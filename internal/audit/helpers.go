package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/temirov/slackaudit/internal/slackapi"
)

const (
	defaultDormantThresholdDaysConstant = 90
	hoursPerDayConstant                 = 24
	elapsedDaysDescriptorTemplate       = "%d days ago"
)

// defaultChannelPrefixes selects the project channels audited when no prefixes
// are configured.
var defaultChannelPrefixes = []string{"proj-", "proj_"}

func filterCandidates(channels []slackapi.Channel, channelPrefixes []string) []slackapi.Channel {
	prefixes := channelPrefixes
	if len(prefixes) == 0 {
		prefixes = defaultChannelPrefixes
	}

	var candidates []slackapi.Channel
	for _, channel := range channels {
		if channel.IsArchived {
			continue
		}
		if !nameHasAnyPrefix(channel.Name, prefixes) {
			continue
		}
		candidates = append(candidates, channel)
	}
	return candidates
}

func nameHasAnyPrefix(channelName string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(channelName, prefix) {
			return true
		}
	}
	return false
}

// wholeDaysBetween returns the count of full days elapsed from the message
// time to the reference time.
func wholeDaysBetween(messageTime time.Time, referenceTime time.Time) int {
	elapsed := referenceTime.Sub(messageTime)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / (hoursPerDayConstant * time.Hour))
}

func classifyElapsedDays(elapsedDays int) ActivityDescriptor {
	switch elapsedDays {
	case 0:
		return ActivityDescriptorToday
	case 1:
		return ActivityDescriptorYesterday
	default:
		return ActivityDescriptor(fmt.Sprintf(elapsedDaysDescriptorTemplate, elapsedDays))
	}
}

func classifyDormancy(elapsedDays int, thresholdDays int) DormancyVerdict {
	if thresholdDays <= 0 {
		thresholdDays = defaultDormantThresholdDaysConstant
	}
	if elapsedDays >= thresholdDays {
		return DormancyVerdictYes
	}
	return DormancyVerdictNo
}
