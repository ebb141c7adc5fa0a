package slackapi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/slackaudit/internal/slackapi"
)

func TestMessageTimeParsing(testInstance *testing.T) {
	testCases := []struct {
		name         string
		timestamp    string
		expectedTime time.Time
		expectError  bool
	}{
		{name: "fractional_timestamp", timestamp: "1700000000.123456", expectedTime: time.Unix(1700000000, 0)},
		{name: "whole_second_timestamp", timestamp: "1700000000", expectedTime: time.Unix(1700000000, 0)},
		{name: "empty_timestamp", timestamp: "", expectError: true},
		{name: "non_numeric_timestamp", timestamp: "not-a-timestamp", expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			message := slackapi.Message{Timestamp: testCase.timestamp}
			parsedTime, parseError := message.Time()
			if testCase.expectError {
				require.Error(subTest, parseError)
				return
			}
			require.NoError(subTest, parseError)
			require.True(subTest, parsedTime.Equal(testCase.expectedTime))
		})
	}
}
