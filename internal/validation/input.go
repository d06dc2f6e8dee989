package validation

import (
	"fmt"
	"regexp"
)

const maxIdentifierLength = 1024

// BigQuery identifier patterns
var (
	datasetPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	tablePattern   = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\p{Pc}\p{Pd}\p{Zs}]+$`)
)

// ValidateDataset validates a BigQuery dataset ID
func ValidateDataset(dataset string) error {
	if dataset == "" {
		return fmt.Errorf("dataset cannot be empty")
	}

	if len(dataset) > maxIdentifierLength {
		return fmt.Errorf("dataset length cannot exceed %d characters, got %d", maxIdentifierLength, len(dataset))
	}

	if !datasetPattern.MatchString(dataset) {
		return fmt.Errorf("dataset must contain only letters, numbers, and underscores")
	}

	return nil
}

// ValidateTable validates a BigQuery table or view ID
func ValidateTable(table string) error {
	if table == "" {
		return fmt.Errorf("table cannot be empty")
	}

	if len(table) > maxIdentifierLength {
		return fmt.Errorf("table length cannot exceed %d bytes, got %d", maxIdentifierLength, len(table))
	}

	if !tablePattern.MatchString(table) {
		return fmt.Errorf("table must contain only letters, marks, numbers, underscores, dashes, and spaces")
	}

	return nil
}
