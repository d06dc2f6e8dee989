package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bqro/internal/bigquery"
	"bqro/internal/config"
	bqerrors "bqro/internal/errors"
	"bqro/internal/inspector"
	"bqro/internal/logging"
	"bqro/internal/output"
)

// errNoCommand is returned when bqro is run without a subcommand. Help has
// already been printed, so Execute only sets the exit status.
var errNoCommand = errors.New("no command given")

// session is an open warehouse connection owned by one invocation
type session interface {
	inspector.Warehouse
	Close() error
}

type openFunc func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session, error)

func openBigQuery(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session, error) {
	client, err := bigquery.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// app carries the flag values shared by every subcommand and the session
// constructor, which tests replace.
type app struct {
	open openFunc

	envFile string
	project string
	verbose bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "bqro",
		Short: "Read-only BigQuery inspection tool",
		Long: `bqro is a small CLI for read-only access to Google BigQuery using a service account.

It lists datasets and tables, shows schemas, and runs read-only SQL queries
with at most 5 result rows. Queries containing data or schema modification
keywords are rejected before they reach BigQuery.

Credentials are read from GOOGLE_APPLICATION_CREDENTIALS, which may also be
set in a .env file in the working directory.

Common usage:
  bqro list-datasets
  bqro list-tables analytics --project my-project
  bqro get-schema analytics events
  bqro run-query "SELECT * FROM analytics.events" --dry-run`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errNoCommand
		},
	}

	root.PersistentFlags().StringVar(&a.project, "project", "", "GCP project ID (uses default from service account if not provided)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "Optional dotenv file with environment settings")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Print debug diagnostics to stderr")

	root.AddCommand(
		newListDatasetsCmd(a),
		newListTablesCmd(a),
		newGetSchemaCmd(a),
		newRunQueryCmd(a),
		newDocsCmd(root),
	)

	return root
}

// connect loads configuration and opens the session for cmd. The returned
// cleanup closes the session and flushes diagnostics.
func (a *app) connect(cmd *cobra.Command) (*inspector.Inspector, func(), error) {
	cfg, err := config.Load(a.envFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Verbose)

	sess, err := a.open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := sess.Close(); err != nil {
			logger.Debug("Failed to close BigQuery client", zap.Error(err))
		}
		_ = logger.Sync()
	}

	return inspector.New(sess, inspector.WithLogger(logger)), cleanup, nil
}

func printOutcome(cmd *cobra.Command, o output.Outcome) {
	w := cmd.OutOrStdout()
	if o.Notice != "" {
		fmt.Fprintln(w, o.Notice)
	}
	fmt.Fprintln(w, output.Format(o))
}

func Execute() {
	root := newRootCmd(&app{open: openBigQuery})
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errNoCommand) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", bqerrors.UserMessage(err))
		}
		os.Exit(1)
	}
}
