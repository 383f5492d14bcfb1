package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/nordwind/backoffice/modules/hrm/importer"
	"github.com/nordwind/backoffice/modules/hrm/infrastructure/persistence"
	"github.com/nordwind/backoffice/modules/hrm/services"
	"github.com/nordwind/backoffice/pkg/composables"
	"github.com/nordwind/backoffice/pkg/configuration"
	"github.com/nordwind/backoffice/pkg/eventbus"
	"github.com/nordwind/backoffice/pkg/logging"
)

type importOptions struct {
	input           string
	format          string
	apply           bool
	maxRows         int
	codeAsPassword  bool
	defaultPassword string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import employees from a CSV, XLSX or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Input file (required)")
	cmd.Flags().StringVar(&opts.format, "format", "auto", "Input format: auto|csv|xlsx|json")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "Row cap per batch (default from IMPORT_MAX_ROWS)")
	cmd.Flags().BoolVar(&opts.codeAsPassword, "code-as-password", false, "Use the employee code as the initial password")
	cmd.Flags().StringVar(&opts.defaultPassword, "default-password", "", "Initial password when none is supplied (default from IMPORT_DEFAULT_PASSWORD)")

	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runImport(ctx context.Context, opts importOptions) error {
	if strings.TrimSpace(opts.input) == "" {
		return withCode(exitUsage, fmt.Errorf("--input is required"))
	}

	conf := configuration.Use()
	if opts.maxRows == 0 {
		opts.maxRows = conf.Import.MaxRows
	}
	if opts.defaultPassword == "" {
		opts.defaultPassword = conf.Import.DefaultInitialPassword
	}

	res, err := normalizeFile(opts)
	if err != nil {
		return withCode(exitValidation, fmt.Errorf("%s: %w", filepath.Base(opts.input), err))
	}

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	repo := persistence.NewEmployeeRepository()
	lookup := services.NewRepositoryLookup(repo)

	var store importer.Store
	mode := "dry_run"
	if opts.apply {
		// CLI runs log to the terminal, not the server's log file.
		store = services.NewRepositoryStore(repo, eventbus.NewEventPublisher(logging.ConsoleLogger(conf.LogrusLogLevel())))
		mode = "applied"
	} else {
		store = &dryRunStore{}
	}

	outcome, err := importer.Reconcile(ctx, res.Rows, lookup, store, importer.Options{
		UseEmployeeCodeAsPassword: opts.codeAsPassword,
		DefaultInitialPassword:    opts.defaultPassword,
	})
	if err != nil {
		return withCode(exitDB, err)
	}

	return writeJSONLine(map[string]any{
		"mode":              mode,
		"input":             opts.input,
		"total":             len(res.Rows),
		"created":           outcome.Created,
		"updated":           outcome.Updated,
		"skipped":           outcome.Skipped,
		"errors":            outcome.Errors,
		"recognizedHeaders": res.RecognizedHeaders,
		"ignoredHeaders":    res.IgnoredHeaders,
	})
}

func normalizeFile(opts importOptions) (*importer.Result, error) {
	f, err := os.Open(opts.input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	format := opts.format
	if format == "auto" {
		switch strings.ToLower(filepath.Ext(opts.input)) {
		case ".xlsx":
			format = "xlsx"
		case ".json":
			format = "json"
		default:
			format = "csv"
		}
	}

	n := importer.NewNormalizer(opts.maxRows)
	switch format {
	case "csv":
		return n.NormalizeCSV(f)
	case "xlsx":
		return n.NormalizeXLSX(f)
	case "json":
		data, err := os.ReadFile(opts.input)
		if err != nil {
			return nil, err
		}
		return n.NormalizeJSON(data)
	}
	return nil, fmt.Errorf("unsupported --format: %s", opts.format)
}

// dryRunStore counts what would happen without touching the database.
type dryRunStore struct{}

func (s *dryRunStore) Create(ctx context.Context, data employee.Employee) error { return nil }
func (s *dryRunStore) Update(ctx context.Context, data employee.Employee) error { return nil }
