package importer

import (
	"context"
	"strconv"
	"time"

	gerrors "github.com/go-faster/errors"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
)

// IdentifierKind names one way to match an import row to an existing
// record.
type IdentifierKind string

const (
	IdentifierID    IdentifierKind = "id"
	IdentifierCode  IdentifierKind = "employeeCode"
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

// DefaultIdentifierPriority is the documented tie-break order: the first
// identifier that resolves to a record wins and lower-priority ones are
// not consulted.
var DefaultIdentifierPriority = []IdentifierKind{
	IdentifierID,
	IdentifierCode,
	IdentifierEmail,
	IdentifierPhone,
}

// Lookup resolves a single identifier to zero-or-one existing employee.
// Implementations return employee.ErrNotFound for a clean miss.
type Lookup interface {
	Find(ctx context.Context, kind IdentifierKind, value string) (employee.Employee, error)
}

// Store applies one row's write. Each call commits independently: a
// mid-batch failure leaves earlier rows applied.
type Store interface {
	Create(ctx context.Context, data employee.Employee) error
	Update(ctx context.Context, data employee.Employee) error
}

type Options struct {
	UseEmployeeCodeAsPassword bool
	DefaultInitialPassword    string
	// IdentifierPriority defaults to DefaultIdentifierPriority.
	IdentifierPriority []IdentifierKind
}

type RowError struct {
	Index      int    `json:"index"`
	Message    string `json:"message"`
	Identifier string `json:"identifier,omitempty"`
}

type Outcome struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors"`
}

// Reconcile decides create/update/skip per row, in input order. One bad
// row never aborts the batch; its failure is recorded and processing
// continues. The only batch-level abort is context cancellation, which
// returns the partial outcome alongside the context error.
func Reconcile(ctx context.Context, rows []Row, lookup Lookup, store Store, opts Options) (*Outcome, error) {
	priority := opts.IdentifierPriority
	if len(priority) == 0 {
		priority = DefaultIdentifierPriority
	}

	outcome := &Outcome{Errors: []RowError{}}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		existing, found, err := resolve(ctx, lookup, priority, row)
		if err != nil {
			// The row threw before it could be classified; it shows up
			// in errors but in none of the counters.
			outcome.Errors = append(outcome.Errors, RowError{
				Index:      i,
				Message:    err.Error(),
				Identifier: bestIdentifier(row, priority),
			})
			continue
		}

		if !found {
			if row.DisplayName == "" {
				outcome.Errors = append(outcome.Errors, RowError{
					Index:      i,
					Message:    "cannot create employee without a display name",
					Identifier: bestIdentifier(row, priority),
				})
				outcome.Skipped++
				continue
			}
			entity, err := entityForCreate(row, opts)
			if err == nil {
				err = store.Create(ctx, entity)
			}
			if err != nil {
				outcome.Errors = append(outcome.Errors, RowError{
					Index:      i,
					Message:    err.Error(),
					Identifier: bestIdentifier(row, priority),
				})
				outcome.Skipped++
				continue
			}
			outcome.Created++
			continue
		}

		patch, err := patchFromRow(row)
		if err == nil {
			err = store.Update(ctx, existing.Apply(patch))
		}
		if err != nil {
			outcome.Errors = append(outcome.Errors, RowError{
				Index:      i,
				Message:    err.Error(),
				Identifier: bestIdentifier(row, priority),
			})
			outcome.Skipped++
			continue
		}
		outcome.Updated++
	}

	return outcome, nil
}

// resolve tries identifiers in priority order; the first one that finds
// a record wins.
func resolve(ctx context.Context, lookup Lookup, priority []IdentifierKind, row Row) (employee.Employee, bool, error) {
	for _, kind := range priority {
		value := identifierValue(row, kind)
		if value == "" {
			continue
		}
		found, err := lookup.Find(ctx, kind, value)
		if err != nil {
			if gerrors.Is(err, employee.ErrNotFound) {
				continue
			}
			return employee.Employee{}, false, err
		}
		return found, true, nil
	}
	return employee.Employee{}, false, nil
}

func identifierValue(row Row, kind IdentifierKind) string {
	switch kind {
	case IdentifierID:
		return row.ID
	case IdentifierCode:
		return row.EmployeeCode
	case IdentifierEmail:
		return row.Email
	case IdentifierPhone:
		return row.Phone
	}
	return ""
}

// bestIdentifier picks the highest-priority identifier present on the
// row, for error reporting. It follows the same priority order used for
// matching.
func bestIdentifier(row Row, priority []IdentifierKind) string {
	for _, kind := range priority {
		if v := identifierValue(row, kind); v != "" {
			return v
		}
	}
	return row.DisplayName
}

func entityForCreate(row Row, opts Options) (employee.Employee, error) {
	patch, err := patchFromRow(row)
	if err != nil {
		return employee.Employee{}, err
	}

	password := row.Password
	if password == "" && opts.UseEmployeeCodeAsPassword && row.EmployeeCode != "" {
		password = row.EmployeeCode
	}
	if password == "" {
		password = opts.DefaultInitialPassword
	}
	patch.Password = &password

	return employee.New(row.DisplayName).Apply(patch), nil
}

// patchFromRow converts present row fields into a sparse patch. Absent
// fields stay nil so updates never clobber existing data.
func patchFromRow(row Row) (employee.Patch, error) {
	patch := employee.Patch{CustomFields: row.CustomFields}
	setIf := func(dst **string, v string) {
		if v != "" {
			value := v
			*dst = &value
		}
	}
	setIf(&patch.Code, row.EmployeeCode)
	setIf(&patch.Email, row.Email)
	setIf(&patch.Phone, row.Phone)
	setIf(&patch.DisplayName, row.DisplayName)
	setIf(&patch.Department, row.Department)
	setIf(&patch.DepartmentCode, row.DepartmentCode)
	setIf(&patch.DepartmentID, row.DepartmentID)
	setIf(&patch.JobTitle, row.JobTitle)
	setIf(&patch.JobGradeCode, row.JobGradeCode)
	setIf(&patch.JobGradeID, row.JobGradeID)
	// Passwords are a creation-time concern; updates never touch them.

	if row.Status != "" {
		status := row.Status
		patch.Status = &status
	}
	if row.HireDate != "" {
		t, err := parseDateField(row.HireDate)
		if err != nil {
			return employee.Patch{}, gerrors.Wrap(err, "hire date")
		}
		patch.HireDate = &t
	}
	if row.TerminationDate != "" {
		t, err := parseDateField(row.TerminationDate)
		if err != nil {
			return employee.Patch{}, gerrors.Wrap(err, "termination date")
		}
		patch.TerminationDate = &t
	}
	return patch, nil
}

func parseDateField(v string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, gerrors.New("invalid date: " + strconv.Quote(v))
}
