package cmd

import (
	"github.com/spf13/cobra"

	bqerrors "bqro/internal/errors"
	"bqro/internal/validation"
)

func newListDatasetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-datasets",
		Short: "List all datasets in the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, cleanup, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := ins.ListDatasets(cmd.Context())
			if err != nil {
				return err
			}

			printOutcome(cmd, out)
			return nil
		},
	}
}

func newListTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-tables <dataset_id>",
		Short: "List all tables and views in a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datasetID := args[0]
			if err := validation.ValidateDataset(datasetID); err != nil {
				return bqerrors.WrapValidationError(err, datasetID)
			}

			ins, cleanup, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := ins.ListTables(cmd.Context(), datasetID)
			if err != nil {
				return err
			}

			printOutcome(cmd, out)
			return nil
		},
	}
}

func newGetSchemaCmd(a *app) *cobra.Command {
	var flatten bool

	cmd := &cobra.Command{
		Use:   "get-schema <dataset_id> <table_id>",
		Short: "Get the schema of a table or view",
		Long: `Show the columns of a table or view in the order BigQuery reports them.

Nested RECORD columns are shown as a single column unless --flatten is given,
in which case each nested field follows its parent as parent.child.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			datasetID, tableID := args[0], args[1]
			if err := validation.ValidateDataset(datasetID); err != nil {
				return bqerrors.WrapValidationError(err, datasetID)
			}
			if err := validation.ValidateTable(tableID); err != nil {
				return bqerrors.WrapValidationError(err, tableID)
			}

			ins, cleanup, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := ins.GetSchema(cmd.Context(), datasetID, tableID, flatten)
			if err != nil {
				return err
			}

			printOutcome(cmd, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flatten, "flatten", false, "Expand nested fields as parent.child rows")
	return cmd
}

func newRunQueryCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run-query <query>",
		Short: "Run a read-only SQL query",
		Long: `Run a read-only SQL query and print at most 5 result rows.

Queries containing INSERT, UPDATE, DELETE, CREATE, DROP, ALTER, MERGE,
TRUNCATE, GRANT ... TO or REVOKE ... FROM are rejected without contacting
BigQuery. This is a keyword check, so a keyword inside a string literal or a
comment is rejected as well.

Query errors are printed as results and do not change the exit status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, cleanup, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			printOutcome(cmd, ins.RunQuery(cmd.Context(), args[0], dryRun))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the query without executing it")
	return cmd
}
