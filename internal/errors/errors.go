package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrorTypeNetwork ErrorType = iota
	ErrorTypeAuth
	ErrorTypePermission
	ErrorTypeNotFound
	ErrorTypeQuota
	ErrorTypeAPI
	ErrorTypeValidation
	ErrorTypeUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeAuth:
		return "auth"
	case ErrorTypePermission:
		return "permission"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeQuota:
		return "quota"
	case ErrorTypeAPI:
		return "api"
	case ErrorTypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// BQSError represents a classified error with the context it happened in
type BQSError struct {
	Type       ErrorType
	Message    string
	Underlying error
	Context    map[string]string
}

// Error implements the error interface
func (e *BQSError) Error() string {
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *BQSError) Unwrap() error {
	return e.Underlying
}

// WrapBigQueryError classifies an error returned by the BigQuery client.
// The HTTP status of a googleapi.Error wins; message heuristics are the fallback.
func WrapBigQueryError(err error, operation, project, dataset, table string) *BQSError {
	if err == nil {
		return nil
	}

	context := map[string]string{
		"operation": operation,
		"project":   project,
	}
	if dataset != "" {
		context["dataset"] = dataset
	}
	if table != "" {
		context["table"] = table
	}

	errType := classify(err)
	return &BQSError{
		Type:       errType,
		Message:    messageFor(errType, err, operation, project, dataset, table),
		Underlying: err,
		Context:    context,
	}
}

// WrapConnectError wraps a failure to open the BigQuery session
func WrapConnectError(err error, project string) *BQSError {
	if err == nil {
		return nil
	}

	errType := classify(err)
	msg := fmt.Sprintf("Error connecting to BigQuery: %s", cleanErrorOutput(err.Error()))
	if errType == ErrorTypeAuth {
		msg = "Authentication failed - check GOOGLE_APPLICATION_CREDENTIALS or run 'gcloud auth application-default login'"
	}

	context := map[string]string{"operation": "connect"}
	if project != "" {
		context["project"] = project
	}

	return &BQSError{
		Type:       errType,
		Message:    msg,
		Underlying: err,
		Context:    context,
	}
}

// WrapValidationError wraps validation errors
func WrapValidationError(err error, input string) *BQSError {
	if err == nil {
		return nil
	}

	return &BQSError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("Invalid input '%s': %s", input, err.Error()),
		Underlying: err,
		Context:    map[string]string{"input": input},
	}
}

func classify(err error) ErrorType {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return ErrorTypeNotFound
		case http.StatusForbidden:
			if hasReason(apiErr, "rateLimitExceeded", "quotaExceeded") {
				return ErrorTypeQuota
			}
			return ErrorTypePermission
		case http.StatusUnauthorized:
			return ErrorTypeAuth
		case http.StatusTooManyRequests:
			return ErrorTypeQuota
		case http.StatusBadRequest:
			return ErrorTypeValidation
		}
		if apiErr.Code >= 500 {
			return ErrorTypeAPI
		}
	}

	lowerError := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerError, "not found"):
		return ErrorTypeNotFound
	case strings.Contains(lowerError, "permission denied") || strings.Contains(lowerError, "access denied"):
		return ErrorTypePermission
	case strings.Contains(lowerError, "authentication") || strings.Contains(lowerError, "credentials"):
		return ErrorTypeAuth
	case strings.Contains(lowerError, "quota") || strings.Contains(lowerError, "rate limit"):
		return ErrorTypeQuota
	case strings.Contains(lowerError, "timeout") || strings.Contains(lowerError, "deadline") ||
		strings.Contains(lowerError, "connection") || strings.Contains(lowerError, "network"):
		return ErrorTypeNetwork
	default:
		return ErrorTypeUnknown
	}
}

func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	return false
}

func messageFor(errType ErrorType, err error, operation, project, dataset, table string) string {
	switch errType {
	case ErrorTypeNotFound:
		return determineNotFoundMessage(operation, project, dataset, table)
	case ErrorTypePermission:
		return fmt.Sprintf("Access denied to %s - check BigQuery permissions", resourceName(project, dataset, table))
	case ErrorTypeAuth:
		return "Authentication failed - check GOOGLE_APPLICATION_CREDENTIALS or service account credentials"
	case ErrorTypeQuota:
		return "BigQuery quota exceeded"
	case ErrorTypeNetwork:
		return "Network error talking to BigQuery"
	default:
		return fmt.Sprintf("BigQuery %s failed: %s", strings.ReplaceAll(operation, "_", " "), cleanErrorOutput(err.Error()))
	}
}

// determineNotFoundMessage creates specific not found messages
func determineNotFoundMessage(operation, project, dataset, table string) string {
	switch operation {
	case "list_datasets":
		return fmt.Sprintf("Project %s not found", project)
	case "list_tables":
		return fmt.Sprintf("Dataset %s.%s not found", project, dataset)
	default:
		if table != "" {
			return fmt.Sprintf("Table %s.%s.%s not found", project, dataset, table)
		}
		return fmt.Sprintf("Dataset %s.%s not found", project, dataset)
	}
}

func resourceName(project, dataset, table string) string {
	parts := []string{project}
	if dataset != "" {
		parts = append(parts, dataset)
	}
	if table != "" {
		parts = append(parts, table)
	}
	return strings.Join(parts, ".")
}

// cleanErrorOutput keeps the first meaningful line of an error message
func cleanErrorOutput(errorText string) string {
	cleaned := strings.TrimSpace(errorText)
	cleaned = strings.TrimPrefix(cleaned, "ERROR: ")

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "WARNING") {
			return line
		}
	}

	return cleaned
}

// UserFriendlyMessage returns a user-friendly error message
func (e *BQSError) UserFriendlyMessage() string {
	switch e.Type {
	case ErrorTypeNotFound:
		return e.Message + " - verify the project, dataset, and table names"
	case ErrorTypePermission:
		return e.Message + " - contact your BigQuery administrator"
	case ErrorTypeQuota:
		return e.Message + " - try again in a few moments"
	case ErrorTypeNetwork:
		return e.Message + " - check your internet connection"
	default:
		return e.Message
	}
}

// UserMessage renders any error for the terminal, preferring the friendly
// form when a BQSError is somewhere in the chain.
func UserMessage(err error) string {
	var bqsErr *BQSError
	if stderrors.As(err, &bqsErr) {
		return bqsErr.UserFriendlyMessage()
	}
	return err.Error()
}
