package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/slackaudit/internal/audit"
)

func sampleRecords() []audit.AuditRecord {
	return []audit.AuditRecord{
		{
			Name:                 "proj-alpha",
			ChannelID:            "C1",
			BotIsMember:          true,
			TargetUserMembership: audit.MembershipStatusYes,
			MemberCount:          12,
			Dormant:              audit.DormancyVerdictNo,
			LastActive:           audit.ActivityDescriptorToday,
		},
		{
			Name:                 "proj-beta",
			ChannelID:            "C2",
			BotIsMember:          false,
			TargetUserMembership: audit.MembershipStatusNo,
			MemberCount:          3,
			Dormant:              audit.DormancyVerdictYes,
			LastActive:           audit.ActivityDescriptor("120 days ago"),
		},
	}
}

func TestWriterWriteArtifacts(testInstance *testing.T) {
	outputDirectory := filepath.Join(testInstance.TempDir(), "tmp_output")
	generatedAt := time.Date(2026, time.March, 1, 12, 30, 45, 0, time.UTC)
	writer := NewWriter(outputDirectory)

	jsonPath, markdownPath, writeError := writer.WriteArtifacts(sampleRecords(), generatedAt)

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, filepath.Join(outputDirectory, "project_channels_20260301_123045.json"), jsonPath)
	require.Equal(testInstance, filepath.Join(outputDirectory, "project_channels_20260301_123045.md"), markdownPath)

	jsonContents, jsonReadError := os.ReadFile(jsonPath)
	require.NoError(testInstance, jsonReadError)

	var decodedPayload struct {
		LastUpdated   string              `json:"last_updated"`
		TotalChannels int                 `json:"total_channels"`
		Channels      []audit.AuditRecord `json:"channels"`
	}
	require.NoError(testInstance, json.Unmarshal(jsonContents, &decodedPayload))
	require.Equal(testInstance, "2026-03-01T12:30:45Z", decodedPayload.LastUpdated)
	require.Equal(testInstance, 2, decodedPayload.TotalChannels)
	require.Equal(testInstance, sampleRecords(), decodedPayload.Channels)

	markdownContents, markdownReadError := os.ReadFile(markdownPath)
	require.NoError(testInstance, markdownReadError)
	renderedMarkdown := string(markdownContents)
	require.Contains(testInstance, renderedMarkdown, "# Project Channels Report")
	require.Contains(testInstance, renderedMarkdown, "**Generated:** 2026-03-01 12:30:45")
	require.Contains(testInstance, renderedMarkdown, "**Total Channels:** 2")
	require.Contains(testInstance, renderedMarkdown, "### proj-alpha")
	require.Contains(testInstance, renderedMarkdown, "- **Channel ID:** `C2`")
	require.Contains(testInstance, renderedMarkdown, "✅ Member")
	require.Contains(testInstance, renderedMarkdown, "❌ Not a member")
}

func TestWriterWriteArtifactsEmptyRecords(testInstance *testing.T) {
	outputDirectory := testInstance.TempDir()
	generatedAt := time.Date(2026, time.March, 1, 12, 30, 45, 0, time.UTC)
	writer := NewWriter(outputDirectory)

	jsonPath, _, writeError := writer.WriteArtifacts(nil, generatedAt)

	require.NoError(testInstance, writeError)

	jsonContents, jsonReadError := os.ReadFile(jsonPath)
	require.NoError(testInstance, jsonReadError)
	require.Contains(testInstance, string(jsonContents), `"total_channels": 0`)
	require.Contains(testInstance, string(jsonContents), `"channels": []`)
}

func TestWriterCreatesMissingDirectory(testInstance *testing.T) {
	outputDirectory := filepath.Join(testInstance.TempDir(), "nested", "reports")
	writer := NewWriter(outputDirectory)

	_, _, writeError := writer.WriteArtifacts(sampleRecords(), time.Now())

	require.NoError(testInstance, writeError)
	directoryInfo, statError := os.Stat(outputDirectory)
	require.NoError(testInstance, statError)
	require.True(testInstance, directoryInfo.IsDir())
}

func TestNewWriterDefaultsBlankDirectory(testInstance *testing.T) {
	writer := NewWriter("   ")

	require.Equal(testInstance, "tmp_output", writer.outputDirectory)
}
