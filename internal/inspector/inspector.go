// Package inspector implements the four read-only commands on top of a
// warehouse session and shapes their results into output rows.
//
// Listing and schema failures are returned as errors and end the process.
// Query failures are folded into the outcome as a message, so a bad query is
// reported on stdout with a zero exit status.
package inspector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bqro/internal/bigquery"
	"bqro/internal/config"
	"bqro/internal/output"
	"bqro/internal/utils"
	"bqro/internal/validation"
)

// RejectedQueryMessage is returned for queries that fail the read-only check.
const RejectedQueryMessage = "Error: Only read-only queries are allowed. Data modification operations detected."

// Warehouse is the subset of the BigQuery session the commands need. A nil
// descriptor returned with a nil error is treated as an empty one.
type Warehouse interface {
	Project() string
	DatasetIDs(ctx context.Context) ([]string, error)
	Dataset(ctx context.Context, datasetID string) (*bigquery.DatasetInfo, error)
	TableIDs(ctx context.Context, datasetID string) ([]string, error)
	Table(ctx context.Context, datasetID, tableID string) (*bigquery.TableMetadata, error)
	DryRun(ctx context.Context, sql string) (int64, error)
	Query(ctx context.Context, sql string, maxRows int) (*bigquery.QueryResult, error)
}

// Inspector runs commands against a Warehouse.
type Inspector struct {
	wh       Warehouse
	logger   *zap.Logger
	readOnly validation.ReadOnlyCheck
	maxRows  int
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Inspector) { i.logger = logger }
}

// WithReadOnlyCheck replaces the query safety predicate.
func WithReadOnlyCheck(check validation.ReadOnlyCheck) Option {
	return func(i *Inspector) { i.readOnly = check }
}

// New returns an Inspector using validation.IsReadOnly and the default row cap.
func New(wh Warehouse, opts ...Option) *Inspector {
	i := &Inspector{
		wh:       wh,
		logger:   zap.NewNop(),
		readOnly: validation.IsReadOnly,
		maxRows:  config.MaxQueryRows,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ListDatasets lists the datasets of the bound project with their descriptions.
func (i *Inspector) ListDatasets(ctx context.Context) (output.Outcome, error) {
	ids, err := i.wh.DatasetIDs(ctx)
	if err != nil {
		return output.Outcome{}, fmt.Errorf("listing datasets: %w", err)
	}

	if len(ids) == 0 {
		o := output.Rows(nil)
		o.Notice = fmt.Sprintf("No datasets found in project %s", i.wh.Project())
		return o, nil
	}

	rows := make([]output.Row, 0, len(ids))
	for _, id := range ids {
		description := ""
		if ds, err := i.wh.Dataset(ctx, id); err != nil {
			i.logger.Debug("Could not fetch dataset descriptor", zap.String("dataset", id), zap.Error(err))
		} else if ds != nil {
			description = ds.Description
		}

		rows = append(rows, output.Row{
			{Name: "Dataset ID", Value: id},
			{Name: "Description", Value: description},
		})
	}

	return output.Rows(rows), nil
}

// ListTables lists the tables and views in a dataset, classified as TABLE or VIEW.
func (i *Inspector) ListTables(ctx context.Context, datasetID string) (output.Outcome, error) {
	ids, err := i.wh.TableIDs(ctx, datasetID)
	if err != nil {
		return output.Outcome{}, fmt.Errorf("listing tables in dataset %s: %w", datasetID, err)
	}

	if len(ids) == 0 {
		o := output.Rows(nil)
		o.Notice = fmt.Sprintf("No tables found in dataset %s", datasetID)
		return o, nil
	}

	rows := make([]output.Row, 0, len(ids))
	for _, id := range ids {
		info := bigquery.TableInfo{ID: id}
		if md, err := i.wh.Table(ctx, datasetID, id); err != nil {
			i.logger.Debug("Could not fetch table descriptor",
				zap.String("dataset", datasetID), zap.String("table", id), zap.Error(err))
		} else if md != nil {
			info.Type = md.Type
			info.Description = md.Description
		}

		rows = append(rows, output.Row{
			{Name: "Table ID", Value: id},
			{Name: "Type", Value: info.DisplayType()},
			{Name: "Description", Value: info.Description},
		})
	}

	return output.Rows(rows), nil
}

// GetSchema returns the columns of a table or view in warehouse order. With
// flatten, nested fields follow their parent as dotted paths.
func (i *Inspector) GetSchema(ctx context.Context, datasetID, tableID string, flatten bool) (output.Outcome, error) {
	md, err := i.wh.Table(ctx, datasetID, tableID)
	if err != nil {
		return output.Outcome{}, fmt.Errorf("getting schema for %s.%s: %w", datasetID, tableID, err)
	}

	var fields []bigquery.SchemaField
	if md != nil && md.Schema != nil {
		fields = md.Schema.Fields
	}
	if flatten {
		fields = bigquery.Flatten(fields)
	}

	rows := make([]output.Row, 0, len(fields))
	for _, f := range fields {
		nullable := "NO"
		if f.Nullable() {
			nullable = "YES"
		}

		rows = append(rows, output.Row{
			{Name: "Column Name", Value: f.Name},
			{Name: "Data Type", Value: f.Type},
			{Name: "Nullable", Value: nullable},
			{Name: "Description", Value: f.Description},
		})
	}

	return output.Rows(rows), nil
}

// RunQuery checks the query with the read-only predicate, then either
// estimates it (dryRun) or executes it and returns at most the row cap.
// It never returns an error: every failure becomes a message outcome.
func (i *Inspector) RunQuery(ctx context.Context, query string, dryRun bool) output.Outcome {
	if !i.readOnly(query) {
		return output.Message(RejectedQueryMessage)
	}

	if dryRun {
		bytes, err := i.wh.DryRun(ctx, query)
		if err != nil {
			return output.Message(fmt.Sprintf("Error executing query: %v", err))
		}
		return output.Message(fmt.Sprintf(
			"Query validation successful. Estimated bytes processed: %d bytes (%s).",
			bytes, utils.FormatBytes(bytes)))
	}

	result, err := i.wh.Query(ctx, query, i.maxRows)
	if err != nil {
		return output.Message(fmt.Sprintf("Error executing query: %v", err))
	}

	n := len(result.Rows)
	if n > i.maxRows {
		n = i.maxRows
	}

	rows := make([]output.Row, 0, n)
	for _, values := range result.Rows[:n] {
		row := make(output.Row, len(result.Columns))
		for c, name := range result.Columns {
			var v any
			if c < len(values) {
				v = values[c]
			}
			row[c] = output.Field{Name: name, Value: v}
		}
		rows = append(rows, row)
	}

	return output.Rows(rows)
}
