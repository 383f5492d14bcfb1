package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/nordwind/backoffice/modules/hrm/importer"
	"github.com/nordwind/backoffice/pkg/eventbus"
)

// memoryEmployeeRepository backs service tests without a database. Writes
// are immediately visible to reads, which gives the same incremental
// lookup behavior the import pipeline sees against Postgres.
type memoryEmployeeRepository struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]employee.Employee

	createCalls int
	updateCalls int
}

func newMemoryEmployeeRepository() *memoryEmployeeRepository {
	return &memoryEmployeeRepository{nextID: 1, byID: map[uint]employee.Employee{}}
}

func (r *memoryEmployeeRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

func (r *memoryEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]employee.Employee, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	return r.GetAll(ctx)
}

func (r *memoryEmployeeRepository) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byID[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (r *memoryEmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return r.findBy(func(e employee.Employee) bool { return e.Code() == code })
}

func (r *memoryEmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.findBy(func(e employee.Employee) bool {
		return strings.EqualFold(e.Email(), email)
	})
}

func (r *memoryEmployeeRepository) GetByPhone(ctx context.Context, phone string) (employee.Employee, error) {
	return r.findBy(func(e employee.Employee) bool { return e.Phone() == phone })
}

func (r *memoryEmployeeRepository) findBy(match func(employee.Employee) bool) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if match(e) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (r *memoryEmployeeRepository) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	id := r.nextID
	r.nextID++
	created := employee.Hydrate(
		id, data.Code(), data.Email(), data.Phone(), data.DisplayName(),
		data.Status(), data.CreatedAt(), data.UpdatedAt(),
	).Apply(employee.Patch{
		Department:      ptr(data.Department()),
		DepartmentCode:  ptr(data.DepartmentCode()),
		JobTitle:        ptr(data.JobTitle()),
		JobGradeCode:    ptr(data.JobGradeCode()),
		Password:        ptr(data.Password()),
		CustomFields:    data.CustomFields(),
		HireDate:        ptr(data.HireDate()),
		TerminationDate: ptr(data.TerminationDate()),
	})
	r.byID[id] = created
	return created, nil
}

func (r *memoryEmployeeRepository) Update(ctx context.Context, data employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if _, ok := r.byID[data.ID()]; !ok {
		return employee.ErrNotFound
	}
	r.byID[data.ID()] = data
	return nil
}

func (r *memoryEmployeeRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return employee.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryEmployeeRepository) mustByCode(t *testing.T, code string) employee.Employee {
	t.Helper()
	e, err := r.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return e
}

func ptr[T any](v T) *T { return &v }

func newTestImportService(repo employee.Repository, opts importer.Options) (*ImportService, eventbus.EventBus) {
	bus := eventbus.NewEventPublisher(nil)
	return NewImportService(repo, bus, 0, opts), bus
}

func TestImportService_CSVEndToEnd(t *testing.T) {
	repo := newMemoryEmployeeRepository()
	svc, bus := newTestImportService(repo, importer.Options{})

	var events []*ImportCompletedEvent
	bus.Subscribe(func(e *ImportCompletedEvent) { events = append(events, e) })

	csvText := "工号,姓名,邮箱,员工状态\n" +
		"E-1,王晓华,xiaohua@example.com,在职\n" +
		"E-2,Lin Chen,lin@example.com,休假\n"

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csvText))
	require.NoError(t, err)
	require.Equal(t, 2, report.Total)
	require.Equal(t, 2, report.Created)
	require.Equal(t, 0, report.Updated)
	require.Equal(t, 0, report.Skipped)
	require.Empty(t, report.Errors)
	require.ElementsMatch(t, []string{"工号", "姓名", "邮箱", "员工状态"}, report.RecognizedHeaders)

	first := repo.mustByCode(t, "E-1")
	require.Equal(t, "王晓华", first.DisplayName())
	require.Equal(t, employee.StatusActive, first.Status())
	require.Equal(t, employee.StatusOnLeave, repo.mustByCode(t, "E-2").Status())

	require.Len(t, events, 1)
	require.Equal(t, report, events[0].Report)
}

func TestImportService_RerunIsIdempotent(t *testing.T) {
	repo := newMemoryEmployeeRepository()
	svc, _ := newTestImportService(repo, importer.Options{})

	body := []byte(`[
		{"employeeCode": "E-1", "displayName": "Alice", "jobTitle": "Engineer"},
		{"employeeCode": "E-2", "displayName": "Bob"}
	]`)

	first, err := svc.ImportJSON(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)

	second, err := svc.ImportJSON(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, 0, second.Created)
	require.Equal(t, 2, second.Updated)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestImportService_InitialPasswordIsHashed(t *testing.T) {
	repo := newMemoryEmployeeRepository()
	svc, _ := newTestImportService(repo, importer.Options{UseEmployeeCodeAsPassword: true})

	_, err := svc.ImportJSON(context.Background(), []byte(`[{"employeeCode": "E-1", "displayName": "Alice"}]`))
	require.NoError(t, err)

	stored := repo.mustByCode(t, "E-1")
	require.NotEqual(t, "E-1", stored.Password())
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password()), []byte("E-1")))
}

func TestImportService_OversizedBatchRejectedBeforeAnyWrite(t *testing.T) {
	repo := newMemoryEmployeeRepository()
	svc, _ := newTestImportService(repo, importer.Options{})

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < importer.DefaultMaxRows+1; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"displayName": "p"}`)
	}
	b.WriteString("]")

	_, err := svc.ImportJSON(context.Background(), []byte(b.String()))
	require.ErrorIs(t, err, importer.ErrTooManyRows)
	require.Zero(t, repo.createCalls)
	require.Zero(t, repo.updateCalls)
}

func TestImportService_DuplicateIdentifierWithinBatch(t *testing.T) {
	repo := newMemoryEmployeeRepository()
	svc, _ := newTestImportService(repo, importer.Options{})

	body := []byte(`[
		{"employeeCode": "E-1", "displayName": "Alice", "jobTitle": "Engineer"},
		{"employeeCode": "E-1", "displayName": "Alice", "jobTitle": "Staff Engineer"}
	]`)

	report, err := svc.ImportJSON(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	require.Equal(t, 1, report.Updated)
	require.Equal(t, "Staff Engineer", repo.mustByCode(t, "E-1").JobTitle())
}
