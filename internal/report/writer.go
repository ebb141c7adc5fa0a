package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/slackaudit/internal/audit"
)

const (
	defaultOutputDirectoryConstant   = "tmp_output"
	outputDirectoryPermissions       = 0o755
	artifactFilePermissions          = 0o644
	fileNameTimestampLayoutConstant  = "20060102_150405"
	generatedTimestampLayoutConstant = "2006-01-02 15:04:05"
	jsonFileNameTemplateConstant     = "project_channels_%s.json"
	markdownFileNameTemplateConstant = "project_channels_%s.md"
	jsonIndentConstant               = "  "
	markdownTitleConstant            = "# Project Channels Report"
	memberBadgeConstant              = "✅ Member"
	nonMemberBadgeConstant           = "❌ Not a member"
	directoryErrorTemplateConstant   = "unable to create output directory %s: %w"
	jsonWriteErrorTemplateConstant   = "unable to write JSON artifact %s: %w"
	markdownWriteErrorTemplate       = "unable to write Markdown artifact %s: %w"
)

// payload is the stable JSON artifact shape consumed by downstream tooling.
type payload struct {
	LastUpdated   string              `json:"last_updated"`
	TotalChannels int                 `json:"total_channels"`
	Channels      []audit.AuditRecord `json:"channels"`
}

// Writer persists audit records beneath a single output directory. A pair of
// artifacts written in one call shares one timestamp in both file names.
type Writer struct {
	outputDirectory string
}

// NewWriter constructs a Writer targeting the provided directory, falling back
// to the default output directory when blank.
func NewWriter(outputDirectory string) *Writer {
	trimmedDirectory := strings.TrimSpace(outputDirectory)
	if len(trimmedDirectory) == 0 {
		trimmedDirectory = defaultOutputDirectoryConstant
	}
	return &Writer{outputDirectory: trimmedDirectory}
}

// WriteArtifacts persists the records as a JSON artifact and a Markdown
// artifact, creating the output directory when missing. It returns the paths
// of the written JSON and Markdown files.
func (writer *Writer) WriteArtifacts(records []audit.AuditRecord, generatedAt time.Time) (string, string, error) {
	if directoryError := os.MkdirAll(writer.outputDirectory, outputDirectoryPermissions); directoryError != nil {
		return "", "", fmt.Errorf(directoryErrorTemplateConstant, writer.outputDirectory, directoryError)
	}

	fileNameTimestamp := generatedAt.Format(fileNameTimestampLayoutConstant)

	jsonPath := filepath.Join(writer.outputDirectory, fmt.Sprintf(jsonFileNameTemplateConstant, fileNameTimestamp))
	if jsonError := writer.writeJSON(jsonPath, records, generatedAt); jsonError != nil {
		return "", "", jsonError
	}

	markdownPath := filepath.Join(writer.outputDirectory, fmt.Sprintf(markdownFileNameTemplateConstant, fileNameTimestamp))
	if markdownError := writer.writeMarkdown(markdownPath, records, generatedAt); markdownError != nil {
		return "", "", markdownError
	}

	return jsonPath, markdownPath, nil
}

func (writer *Writer) writeJSON(jsonPath string, records []audit.AuditRecord, generatedAt time.Time) error {
	if records == nil {
		records = []audit.AuditRecord{}
	}

	encodedPayload, encodeError := json.MarshalIndent(payload{
		LastUpdated:   generatedAt.Format(time.RFC3339),
		TotalChannels: len(records),
		Channels:      records,
	}, "", jsonIndentConstant)
	if encodeError != nil {
		return fmt.Errorf(jsonWriteErrorTemplateConstant, jsonPath, encodeError)
	}

	if writeError := os.WriteFile(jsonPath, encodedPayload, artifactFilePermissions); writeError != nil {
		return fmt.Errorf(jsonWriteErrorTemplateConstant, jsonPath, writeError)
	}
	return nil
}

func (writer *Writer) writeMarkdown(markdownPath string, records []audit.AuditRecord, generatedAt time.Time) error {
	var markdownBuilder strings.Builder

	fmt.Fprintf(&markdownBuilder, "%s\n\n", markdownTitleConstant)
	fmt.Fprintf(&markdownBuilder, "**Generated:** %s\n\n", generatedAt.Format(generatedTimestampLayoutConstant))
	fmt.Fprintf(&markdownBuilder, "**Total Channels:** %d\n\n", len(records))
	markdownBuilder.WriteString("---\n\n")

	for _, record := range records {
		membershipBadge := nonMemberBadgeConstant
		if record.TargetUserMembership == audit.MembershipStatusYes {
			membershipBadge = memberBadgeConstant
		}
		fmt.Fprintf(&markdownBuilder, "### %s\n", record.Name)
		fmt.Fprintf(&markdownBuilder, "- **Channel ID:** `%s`\n", record.ChannelID)
		fmt.Fprintf(&markdownBuilder, "- **Members:** %d\n", record.MemberCount)
		fmt.Fprintf(&markdownBuilder, "- **Last Active:** %s\n", record.LastActive)
		fmt.Fprintf(&markdownBuilder, "- **Your Membership:** %s\n", membershipBadge)
		fmt.Fprintf(&markdownBuilder, "- **Dormant:** %s\n", record.Dormant)
		markdownBuilder.WriteString("\n")
	}

	if writeError := os.WriteFile(markdownPath, []byte(markdownBuilder.String()), artifactFilePermissions); writeError != nil {
		return fmt.Errorf(markdownWriteErrorTemplate, markdownPath, writeError)
	}
	return nil
}
