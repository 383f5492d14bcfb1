package persistence

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
)

type employeeRow struct {
	ID              int64
	Code            string
	Email           string
	Phone           string
	DisplayName     string
	Department      string
	DepartmentCode  string
	DepartmentID    string
	JobTitle        string
	JobGradeCode    string
	JobGradeID      string
	Status          string
	HireDate        pgtype.Date
	TerminationDate pgtype.Date
	Password        string
	CustomFields    []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func toDomainEmployee(r employeeRow) (employee.Employee, error) {
	status, ok := employee.ParseStatus(r.Status)
	if !ok {
		status = employee.StatusActive
	}

	entity := employee.Hydrate(
		uint(r.ID),
		r.Code,
		r.Email,
		r.Phone,
		r.DisplayName,
		status,
		r.CreatedAt,
		r.UpdatedAt,
	)

	patch := employee.Patch{
		Department:     &r.Department,
		DepartmentCode: &r.DepartmentCode,
		DepartmentID:   &r.DepartmentID,
		JobTitle:       &r.JobTitle,
		JobGradeCode:   &r.JobGradeCode,
		JobGradeID:     &r.JobGradeID,
		Password:       &r.Password,
	}
	if r.HireDate.Valid {
		patch.HireDate = &r.HireDate.Time
	}
	if r.TerminationDate.Valid {
		patch.TerminationDate = &r.TerminationDate.Time
	}
	if len(r.CustomFields) > 0 {
		custom := make(map[string]string)
		if err := json.Unmarshal(r.CustomFields, &custom); err != nil {
			return employee.Employee{}, err
		}
		patch.CustomFields = custom
	}

	return entity.Apply(patch), nil
}

func customFieldsJSON(e employee.Employee) ([]byte, error) {
	custom := e.CustomFields()
	if len(custom) == 0 {
		return []byte(`{}`), nil
	}
	return json.Marshal(custom)
}

func pgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	u := t.UTC()
	y, m, d := u.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}
