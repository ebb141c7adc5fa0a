package slackapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/slackaudit/internal/slackapi"
)

const (
	paginatorTestEndpointNameConstant   = "conversations.list"
	paginatorSinglePageCaseNameConstant = "single_page_without_cursor"
	paginatorMultiPageCaseNameConstant  = "items_spread_across_pages"
	paginatorEmptyPageCaseNameConstant  = "empty_first_page"
	paginatorTestPageSizeConstant       = 2
	paginatorFailureMessageConstant     = "simulated page failure"
	paginatorPageTemplateConstant       = `{"ok":true,"items":%s,"response_metadata":{"next_cursor":"%s"}}`
)

type scriptedPageInvoker struct {
	pages              []json.RawMessage
	failOnPage         int
	observedParameters []map[string]string
}

func (invoker *scriptedPageInvoker) Invoke(executionContext context.Context, endpointName string, parameters map[string]string, verb slackapi.CallVerb) (json.RawMessage, error) {
	copiedParameters := make(map[string]string, len(parameters))
	for parameterName, parameterValue := range parameters {
		copiedParameters[parameterName] = parameterValue
	}
	invoker.observedParameters = append(invoker.observedParameters, copiedParameters)

	pageNumber := len(invoker.observedParameters)
	if invoker.failOnPage > 0 && pageNumber == invoker.failOnPage {
		return nil, errors.New(paginatorFailureMessageConstant)
	}
	return invoker.pages[pageNumber-1], nil
}

func buildPagePayload(items []string, nextCursor string) json.RawMessage {
	encodedItems, _ := json.Marshal(items)
	return json.RawMessage(fmt.Sprintf(paginatorPageTemplateConstant, string(encodedItems), nextCursor))
}

func collectItems(collected *[]string) slackapi.PageConsumer {
	return func(pagePayload json.RawMessage) error {
		var page struct {
			Items []string `json:"items"`
		}
		if decodeError := json.Unmarshal(pagePayload, &page); decodeError != nil {
			return decodeError
		}
		*collected = append(*collected, page.Items...)
		return nil
	}
}

func TestCursorPaginatorCollectsAllItemsInPageOrder(testInstance *testing.T) {
	testCases := []struct {
		name          string
		pages         []json.RawMessage
		expectedItems []string
	}{
		{
			name: paginatorSinglePageCaseNameConstant,
			pages: []json.RawMessage{
				buildPagePayload([]string{"alpha", "beta"}, ""),
			},
			expectedItems: []string{"alpha", "beta"},
		},
		{
			name: paginatorMultiPageCaseNameConstant,
			pages: []json.RawMessage{
				buildPagePayload([]string{"alpha", "beta"}, "cursor-1"),
				buildPagePayload([]string{"gamma", "delta"}, "cursor-2"),
				buildPagePayload([]string{"epsilon"}, ""),
			},
			expectedItems: []string{"alpha", "beta", "gamma", "delta", "epsilon"},
		},
		{
			name: paginatorEmptyPageCaseNameConstant,
			pages: []json.RawMessage{
				buildPagePayload([]string{}, ""),
			},
			expectedItems: nil,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			invoker := &scriptedPageInvoker{pages: testCase.pages}
			paginator, creationError := slackapi.NewCursorPaginator(invoker)
			require.NoError(subTest, creationError)

			var collected []string
			paginationError := paginator.CollectAllPages(context.Background(), paginatorTestEndpointNameConstant, nil, paginatorTestPageSizeConstant, collectItems(&collected))

			require.NoError(subTest, paginationError)
			require.Equal(subTest, testCase.expectedItems, collected)
			require.Len(subTest, invoker.observedParameters, len(testCase.pages))
		})
	}
}

func TestCursorPaginatorInjectsCursorAndLimitParameters(testInstance *testing.T) {
	invoker := &scriptedPageInvoker{pages: []json.RawMessage{
		buildPagePayload([]string{"alpha"}, "cursor-1"),
		buildPagePayload([]string{"beta"}, ""),
	}}
	paginator, creationError := slackapi.NewCursorPaginator(invoker)
	require.NoError(testInstance, creationError)

	var collected []string
	baseParameters := map[string]string{"types": "public_channel"}
	paginationError := paginator.CollectAllPages(context.Background(), paginatorTestEndpointNameConstant, baseParameters, paginatorTestPageSizeConstant, collectItems(&collected))
	require.NoError(testInstance, paginationError)

	require.Len(testInstance, invoker.observedParameters, 2)
	firstPageParameters := invoker.observedParameters[0]
	require.Equal(testInstance, "public_channel", firstPageParameters["types"])
	require.Equal(testInstance, "2", firstPageParameters["limit"])
	require.NotContains(testInstance, firstPageParameters, "cursor")

	secondPageParameters := invoker.observedParameters[1]
	require.Equal(testInstance, "cursor-1", secondPageParameters["cursor"])
}

func TestCursorPaginatorKeepsAccumulatedItemsOnPageFailure(testInstance *testing.T) {
	invoker := &scriptedPageInvoker{
		pages: []json.RawMessage{
			buildPagePayload([]string{"alpha", "beta"}, "cursor-1"),
			nil,
		},
		failOnPage: 2,
	}
	paginator, creationError := slackapi.NewCursorPaginator(invoker)
	require.NoError(testInstance, creationError)

	var collected []string
	paginationError := paginator.CollectAllPages(context.Background(), paginatorTestEndpointNameConstant, nil, paginatorTestPageSizeConstant, collectItems(&collected))

	require.Error(testInstance, paginationError)
	pageFailure := slackapi.PageFailureError{}
	require.ErrorAs(testInstance, paginationError, &pageFailure)
	require.Equal(testInstance, 2, pageFailure.PageNumber)
	require.Equal(testInstance, []string{"alpha", "beta"}, collected)
}

func TestNewCursorPaginatorValidation(testInstance *testing.T) {
	paginator, creationError := slackapi.NewCursorPaginator(nil)
	require.Nil(testInstance, paginator)
	require.ErrorIs(testInstance, creationError, slackapi.ErrInvokerNotConfigured)
}
