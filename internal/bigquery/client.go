package bigquery

import (
	"context"
	"fmt"

	bq "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"bqro/internal/config"
	"bqro/internal/errors"
)

// Client is an open BigQuery session bound to a single project
type Client struct {
	client  *bq.Client
	project string
	logger  *zap.Logger
}

// Open resolves credentials and project from cfg and connects to BigQuery.
// Status lines go to the logger; errors come back classified. extra options
// are applied after the credential options, e.g. an endpoint override.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, extra ...option.ClientOption) (*Client, error) {
	var opts []option.ClientOption

	if cfg.CredentialsFile == "" {
		envFile := cfg.EnvFile
		if envFile == "" {
			envFile = config.DefaultEnvFile
		}
		logger.Warn(config.CredentialsEnv+" is not set, continuing with default authentication",
			zap.String("hint", fmt.Sprintf("set %s=/path/to/your-key-file.json in %s", config.CredentialsEnv, envFile)))
	} else {
		logger.Info("Using service account key", zap.String("path", cfg.CredentialsFile))
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.CredentialsFile))
	}

	opts = append(opts, extra...)

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = bq.DetectProjectID
	}

	client, err := bq.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.WrapConnectError(err, cfg.ProjectID)
	}

	project := client.Project()
	if project == "" {
		client.Close()
		return nil, errors.WrapConnectError(fmt.Errorf("no project could be resolved from credentials, pass --project"), "")
	}

	logger.Info("Connected to BigQuery project", zap.String("project", project))

	return &Client{
		client:  client,
		project: project,
		logger:  logger,
	}, nil
}

// Project returns the resolved project ID
func (c *Client) Project() string {
	return c.project
}

// Close releases the underlying client
func (c *Client) Close() error {
	return c.client.Close()
}

// DatasetIDs lists the datasets of the bound project
func (c *Client) DatasetIDs(ctx context.Context) ([]string, error) {
	it := c.client.Datasets(ctx)

	var ids []string
	for {
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.WrapBigQueryError(err, "list_datasets", c.project, "", "")
		}
		ids = append(ids, ds.DatasetID)
	}

	return ids, nil
}

// Dataset fetches the full dataset descriptor
func (c *Client) Dataset(ctx context.Context, datasetID string) (*DatasetInfo, error) {
	md, err := c.client.Dataset(datasetID).Metadata(ctx)
	if err != nil {
		return nil, errors.WrapBigQueryError(err, "get_dataset", c.project, datasetID, "")
	}

	return &DatasetInfo{
		ID:          datasetID,
		Description: md.Description,
	}, nil
}

// TableIDs lists the tables and views of a dataset
func (c *Client) TableIDs(ctx context.Context, datasetID string) ([]string, error) {
	it := c.client.Dataset(datasetID).Tables(ctx)

	var ids []string
	for {
		tbl, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.WrapBigQueryError(err, "list_tables", c.project, datasetID, "")
		}
		ids = append(ids, tbl.TableID)
	}

	return ids, nil
}

// Table fetches the full table descriptor including its schema
func (c *Client) Table(ctx context.Context, datasetID, tableID string) (*TableMetadata, error) {
	md, err := c.client.Dataset(datasetID).Table(tableID).Metadata(ctx)
	if err != nil {
		return nil, errors.WrapBigQueryError(err, "get_schema", c.project, datasetID, tableID)
	}

	return &TableMetadata{
		TableInfo: TableInfo{
			ID:          tableID,
			Type:        string(md.Type),
			Description: md.Description,
		},
		Schema: &Schema{Fields: convertSchema(md.Schema)},
	}, nil
}

// DryRun validates a query without executing it and returns the number of
// bytes it would process
func (c *Client) DryRun(ctx context.Context, sql string) (int64, error) {
	q := c.client.Query(sql)
	q.DryRun = true

	job, err := q.Run(ctx)
	if err != nil {
		return 0, err
	}

	status := job.LastStatus()
	if status == nil {
		return 0, fmt.Errorf("dry run returned no job status")
	}
	if err := status.Err(); err != nil {
		return 0, err
	}
	if status.Statistics == nil {
		return 0, fmt.Errorf("dry run returned no statistics")
	}

	return status.Statistics.TotalBytesProcessed, nil
}

// Query executes sql and consumes at most maxRows rows. The SQL text is sent
// unmodified; the cap only limits how much of the result is read.
func (c *Client) Query(ctx context.Context, sql string, maxRows int) (*QueryResult, error) {
	q := c.client.Query(sql)
	q.JobID = config.JobIDPrefix + uuid.NewString()

	job, err := q.Run(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Submitted query job", zap.String("job_id", job.ID()), zap.String("location", job.Location()))

	it, err := job.Read(ctx)
	if err != nil {
		return nil, err
	}
	it.PageInfo().MaxSize = maxRows

	result := &QueryResult{}
	for len(result.Rows) < maxRows {
		var row []bq.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		result.Rows = append(result.Rows, values)
	}

	for _, field := range it.Schema {
		result.Columns = append(result.Columns, field.Name)
	}

	c.logger.Debug("Read query result",
		zap.Int("rows_read", len(result.Rows)),
		zap.Uint64("total_rows", it.TotalRows))

	return result, nil
}
