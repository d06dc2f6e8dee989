package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestWrapBigQueryError_Nil(t *testing.T) {
	assert.Nil(t, WrapBigQueryError(nil, "list_tables", "p", "d", ""))
	assert.Nil(t, WrapConnectError(nil, "p"))
	assert.Nil(t, WrapValidationError(nil, "x"))
}

func TestWrapBigQueryError_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"404", &googleapi.Error{Code: http.StatusNotFound, Message: "Not found: Dataset p:d"}, ErrorTypeNotFound},
		{"403 denied", &googleapi.Error{Code: http.StatusForbidden, Message: "Access Denied"}, ErrorTypePermission},
		{"403 rate limit", &googleapi.Error{
			Code:   http.StatusForbidden,
			Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}},
		}, ErrorTypeQuota},
		{"401", &googleapi.Error{Code: http.StatusUnauthorized}, ErrorTypeAuth},
		{"429", &googleapi.Error{Code: http.StatusTooManyRequests}, ErrorTypeQuota},
		{"400", &googleapi.Error{Code: http.StatusBadRequest, Message: "Syntax error"}, ErrorTypeValidation},
		{"503", &googleapi.Error{Code: http.StatusServiceUnavailable}, ErrorTypeAPI},
		{"wrapped 404", fmt.Errorf("get metadata: %w", &googleapi.Error{Code: http.StatusNotFound}), ErrorTypeNotFound},
		{"text not found", stderrors.New("dataset not found"), ErrorTypeNotFound},
		{"text credentials", stderrors.New("could not find default credentials"), ErrorTypeAuth},
		{"text timeout", stderrors.New("context deadline exceeded"), ErrorTypeNetwork},
		{"unknown", stderrors.New("boom"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bqsErr := WrapBigQueryError(tt.err, "get_schema", "proj", "ds", "tbl")
			require.NotNil(t, bqsErr)
			assert.Equal(t, tt.want, bqsErr.Type, "got %s", bqsErr.Type)
			assert.ErrorIs(t, bqsErr, tt.err)
		})
	}
}

func TestWrapBigQueryError_Messages(t *testing.T) {
	notFound := &googleapi.Error{Code: http.StatusNotFound}

	assert.Equal(t, "Dataset proj.ds not found",
		WrapBigQueryError(notFound, "list_tables", "proj", "ds", "").Message)
	assert.Equal(t, "Table proj.ds.tbl not found",
		WrapBigQueryError(notFound, "get_schema", "proj", "ds", "tbl").Message)
	assert.Equal(t, "Project proj not found",
		WrapBigQueryError(notFound, "list_datasets", "proj", "", "").Message)

	unknown := WrapBigQueryError(stderrors.New("ERROR: something odd\nWARNING: noise"), "list_datasets", "proj", "", "")
	assert.Equal(t, "BigQuery list datasets failed: something odd", unknown.Message)
}

func TestBQSError_ErrorIncludesSortedContext(t *testing.T) {
	err := WrapBigQueryError(&googleapi.Error{Code: http.StatusNotFound}, "get_schema", "proj", "ds", "tbl")
	assert.Equal(t,
		"Table proj.ds.tbl not found (dataset=ds, operation=get_schema, project=proj, table=tbl)",
		err.Error())
}

func TestWrapConnectError(t *testing.T) {
	authErr := WrapConnectError(stderrors.New("google: could not find default credentials"), "")
	assert.Equal(t, ErrorTypeAuth, authErr.Type)
	assert.Contains(t, authErr.Message, "Authentication failed")

	other := WrapConnectError(stderrors.New("bigquery: constructing client: boom"), "proj")
	assert.Equal(t, "Error connecting to BigQuery: bigquery: constructing client: boom", other.Message)
	assert.Equal(t, "proj", other.Context["project"])
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("list tables: %w",
		WrapBigQueryError(&googleapi.Error{Code: http.StatusNotFound}, "list_tables", "proj", "ds", ""))
	assert.Equal(t, "Dataset proj.ds not found - verify the project, dataset, and table names", UserMessage(wrapped))

	assert.Equal(t, "plain", UserMessage(stderrors.New("plain")))
}
