package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/nordwind/backoffice/pkg/composables"
)

const employeeColumns = `
	id, code, email, phone, display_name, department, department_code,
	department_id, job_title, job_grade_code, job_grade_id, status,
	hire_date, termination_date, password, custom_fields, created_at, updated_at`

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (g *PgEmployeeRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	return g.query(ctx, fmt.Sprintf(`SELECT %s FROM employees ORDER BY id`, employeeColumns))
}

func (g *PgEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	if params == nil {
		params = &employee.FindParams{}
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []interface{}{}
	if q := strings.TrimSpace(params.Q); q != "" {
		where = `WHERE display_name ILIKE $1 OR code ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+q+"%")
	}
	query := fmt.Sprintf(
		`SELECT %s FROM employees %s ORDER BY id OFFSET $%d LIMIT $%d`,
		employeeColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, offset, limit)

	return g.query(ctx, query, args...)
}

func (g *PgEmployeeRepository) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	return g.queryOne(ctx, `WHERE id = $1`, int64(id))
}

func (g *PgEmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return g.queryOne(ctx, `WHERE code = $1`, strings.TrimSpace(code))
}

func (g *PgEmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return g.queryOne(ctx, `WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (g *PgEmployeeRepository) GetByPhone(ctx context.Context, phone string) (employee.Employee, error) {
	return g.queryOne(ctx, `WHERE phone = $1`, strings.TrimSpace(phone))
}

func (g *PgEmployeeRepository) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	custom, err := customFieldsJSON(data)
	if err != nil {
		return employee.Employee{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO employees (
			code, email, phone, display_name, department, department_code,
			department_id, job_title, job_grade_code, job_grade_id, status,
			hire_date, termination_date, password, custom_fields
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s`, employeeColumns)

	row := tx.QueryRow(ctx, query,
		data.Code(), data.Email(), data.Phone(), data.DisplayName(),
		data.Department(), data.DepartmentCode(), data.DepartmentID(),
		data.JobTitle(), data.JobGradeCode(), data.JobGradeID(),
		string(data.Status()), pgDate(data.HireDate()), pgDate(data.TerminationDate()),
		data.Password(), custom,
	)
	created, err := scanEmployee(row)
	if err != nil {
		return employee.Employee{}, mapPgError(err)
	}
	return created, nil
}

func (g *PgEmployeeRepository) Update(ctx context.Context, data employee.Employee) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	custom, err := customFieldsJSON(data)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE employees SET
			code = $1, email = $2, phone = $3, display_name = $4,
			department = $5, department_code = $6, department_id = $7,
			job_title = $8, job_grade_code = $9, job_grade_id = $10,
			status = $11, hire_date = $12, termination_date = $13,
			custom_fields = $14, updated_at = now()
		WHERE id = $15`,
		data.Code(), data.Email(), data.Phone(), data.DisplayName(),
		data.Department(), data.DepartmentCode(), data.DepartmentID(),
		data.JobTitle(), data.JobGradeCode(), data.JobGradeID(),
		string(data.Status()), pgDate(data.HireDate()), pgDate(data.TerminationDate()),
		custom, int64(data.ID()),
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (g *PgEmployeeRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (g *PgEmployeeRepository) query(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employee.Employee
	for rows.Next() {
		entity, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (g *PgEmployeeRepository) queryOne(ctx context.Context, where string, args ...interface{}) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	query := fmt.Sprintf(`SELECT %s FROM employees %s`, employeeColumns, where)
	entity, err := scanEmployee(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return entity, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var r employeeRow
	if err := row.Scan(
		&r.ID, &r.Code, &r.Email, &r.Phone, &r.DisplayName,
		&r.Department, &r.DepartmentCode, &r.DepartmentID,
		&r.JobTitle, &r.JobGradeCode, &r.JobGradeID, &r.Status,
		&r.HireDate, &r.TerminationDate, &r.Password, &r.CustomFields,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return employee.Employee{}, err
	}
	return toDomainEmployee(r)
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return employee.ErrDuplicate
	}
	return err
}
