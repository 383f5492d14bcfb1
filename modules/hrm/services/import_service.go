package services

import (
	"context"
	"io"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/nordwind/backoffice/modules/hrm/importer"
	"github.com/nordwind/backoffice/pkg/composables"
	"github.com/nordwind/backoffice/pkg/eventbus"
)

// Report is what the calling UI consumes: reconciliation counters plus
// the header classification from normalization. The full error list is
// always present; truncating it for display is the client's business.
type Report struct {
	importer.Outcome
	Total             int      `json:"total"`
	RecognizedHeaders []string `json:"recognizedHeaders"`
	IgnoredHeaders    []string `json:"ignoredHeaders"`
}

type ImportCompletedEvent struct {
	Report    *Report
	Timestamp time.Time
}

// ImportService runs the two-stage bulk reconciliation pipeline:
// normalize a raw tabular source into canonical rows, then upsert them
// against the employee repository. Rows are written independently, one
// commit per row; a re-run of the same batch matches by identifier and
// turns into updates.
type ImportService struct {
	repo       employee.Repository
	publisher  eventbus.EventBus
	normalizer *importer.Normalizer
	options    importer.Options
}

func NewImportService(repo employee.Repository, publisher eventbus.EventBus, maxRows int, options importer.Options) *ImportService {
	return &ImportService{
		repo:       repo,
		publisher:  publisher,
		normalizer: importer.NewNormalizer(maxRows),
		options:    options,
	}
}

func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*Report, error) {
	res, err := s.normalizer.NormalizeCSV(r)
	if err != nil {
		importBatches.WithLabelValues("csv", "rejected").Inc()
		return nil, err
	}
	return s.run(ctx, "csv", res)
}

func (s *ImportService) ImportXLSX(ctx context.Context, r io.Reader) (*Report, error) {
	res, err := s.normalizer.NormalizeXLSX(r)
	if err != nil {
		importBatches.WithLabelValues("xlsx", "rejected").Inc()
		return nil, err
	}
	return s.run(ctx, "xlsx", res)
}

func (s *ImportService) ImportJSON(ctx context.Context, data []byte) (*Report, error) {
	res, err := s.normalizer.NormalizeJSON(data)
	if err != nil {
		importBatches.WithLabelValues("json", "rejected").Inc()
		return nil, err
	}
	return s.run(ctx, "json", res)
}

func (s *ImportService) run(ctx context.Context, format string, res *importer.Result) (*Report, error) {
	logger := composables.UseLogger(ctx)

	outcome, err := importer.Reconcile(
		ctx,
		res.Rows,
		NewRepositoryLookup(s.repo),
		NewRepositoryStore(s.repo, s.publisher),
		s.options,
	)
	if err != nil {
		importBatches.WithLabelValues(format, "aborted").Inc()
		return nil, err
	}

	report := &Report{
		Outcome:           *outcome,
		Total:             len(res.Rows),
		RecognizedHeaders: res.RecognizedHeaders,
		IgnoredHeaders:    res.IgnoredHeaders,
	}

	importBatches.WithLabelValues(format, "completed").Inc()
	observeImportRows(outcome.Created, outcome.Updated, outcome.Skipped, len(outcome.Errors))

	logger.WithField("format", format).
		WithField("total", report.Total).
		WithField("created", outcome.Created).
		WithField("updated", outcome.Updated).
		WithField("skipped", outcome.Skipped).
		WithField("errors", len(outcome.Errors)).
		Info("bulk import completed")

	s.publisher.Publish(&ImportCompletedEvent{Report: report, Timestamp: time.Now()})
	return report, nil
}

// NewRepositoryLookup adapts the employee repository to the reconciler's
// identifier resolution contract.
func NewRepositoryLookup(repo employee.Repository) importer.Lookup {
	return &repositoryLookup{repo: repo}
}

type repositoryLookup struct {
	repo employee.Repository
}

func (l *repositoryLookup) Find(ctx context.Context, kind importer.IdentifierKind, value string) (employee.Employee, error) {
	switch kind {
	case importer.IdentifierID:
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			// A non-numeric internal id cannot match anything; fall
			// through to the next identifier.
			return employee.Employee{}, employee.ErrNotFound
		}
		return l.repo.GetByID(ctx, uint(id))
	case importer.IdentifierCode:
		return l.repo.GetByCode(ctx, value)
	case importer.IdentifierEmail:
		return l.repo.GetByEmail(ctx, value)
	case importer.IdentifierPhone:
		return l.repo.GetByPhone(ctx, value)
	}
	return employee.Employee{}, employee.ErrNotFound
}

// NewRepositoryStore writes one row at a time, each call its own commit.
// Initial passwords are hashed before they reach persistence.
func NewRepositoryStore(repo employee.Repository, publisher eventbus.EventBus) importer.Store {
	return &repositoryStore{repo: repo, publisher: publisher}
}

type repositoryStore struct {
	repo      employee.Repository
	publisher eventbus.EventBus
}

func (s *repositoryStore) Create(ctx context.Context, data employee.Employee) error {
	if pw := data.Password(); pw != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash := string(hashed)
		data = data.Apply(employee.Patch{Password: &hash})
	}
	created, err := s.repo.Create(ctx, data)
	if err != nil {
		return err
	}
	s.publisher.Publish(employee.NewCreatedEvent(created))
	return nil
}

func (s *repositoryStore) Update(ctx context.Context, data employee.Employee) error {
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish(employee.NewUpdatedEvent(data))
	return nil
}
