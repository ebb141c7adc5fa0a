package audit

import (
	"fmt"
	"strings"
)

const (
	tableHeaderNameConstant        = "Channel Name"
	tableHeaderChannelIDConstant   = "Channel ID"
	tableHeaderBotMemberConstant   = "Bot Member"
	tableHeaderUserMemberConstant  = "User Member"
	tableHeaderDormantConstant     = "Dormant"
	tableHeaderLastActiveConstant  = "Last Active"
	tableHeaderMemberCountConstant = "Users"
	tableRowTemplateConstant       = "%-30s | %-15s | %-10s | %-20s | %-10s | %-15s | %d\n"
	tableHeaderTemplateConstant    = "%-30s | %-15s | %-10s | %-20s | %-10s | %-15s | %s\n"
	tableSeparatorWidthConstant    = 120
	tableSeparatorRuneConstant     = "-"
	membershipYesLabelConstant     = "Yes"
	membershipNoLabelConstant      = "No"
)

// WriteTable renders the audit records as a fixed-width console report on the
// service's output writer.
func (service *Service) WriteTable(records []AuditRecord) error {
	if _, headerError := fmt.Fprintf(
		service.outputWriter,
		tableHeaderTemplateConstant,
		tableHeaderNameConstant,
		tableHeaderChannelIDConstant,
		tableHeaderBotMemberConstant,
		tableHeaderUserMemberConstant,
		tableHeaderDormantConstant,
		tableHeaderLastActiveConstant,
		tableHeaderMemberCountConstant,
	); headerError != nil {
		return headerError
	}

	if _, separatorError := fmt.Fprintln(service.outputWriter, strings.Repeat(tableSeparatorRuneConstant, tableSeparatorWidthConstant)); separatorError != nil {
		return separatorError
	}

	for _, record := range records {
		botMembershipLabel := membershipNoLabelConstant
		if record.BotIsMember {
			botMembershipLabel = membershipYesLabelConstant
		}
		if _, rowError := fmt.Fprintf(
			service.outputWriter,
			tableRowTemplateConstant,
			record.Name,
			record.ChannelID,
			botMembershipLabel,
			string(record.TargetUserMembership),
			string(record.Dormant),
			string(record.LastActive),
			record.MemberCount,
		); rowError != nil {
			return rowError
		}
	}

	return nil
}
