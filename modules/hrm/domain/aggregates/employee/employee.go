package employee

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
)

// ParseStatus accepts only the canonical enum values. Looser, bilingual
// coercion of user-supplied text lives in the importer.
func ParseStatus(v string) (Status, bool) {
	switch Status(strings.TrimSpace(v)) {
	case StatusActive:
		return StatusActive, true
	case StatusOnLeave:
		return StatusOnLeave, true
	case StatusTerminated:
		return StatusTerminated, true
	}
	return "", false
}

type Employee struct {
	id              uint
	code            string
	email           string
	phone           string
	displayName     string
	department      string
	departmentCode  string
	departmentID    string
	jobTitle        string
	jobGradeCode    string
	jobGradeID      string
	status          Status
	hireDate        time.Time
	terminationDate time.Time
	password        string
	customFields    map[string]string
	createdAt       time.Time
	updatedAt       time.Time
}

func New(displayName string) Employee {
	return Employee{
		displayName: strings.TrimSpace(displayName),
		status:      StatusActive,
	}
}

func Hydrate(
	id uint,
	code string,
	email string,
	phone string,
	displayName string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Employee {
	return Employee{
		id:          id,
		code:        strings.TrimSpace(code),
		email:       strings.TrimSpace(email),
		phone:       strings.TrimSpace(phone),
		displayName: strings.TrimSpace(displayName),
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e Employee) ID() uint                   { return e.id }
func (e Employee) Code() string               { return e.code }
func (e Employee) Email() string              { return e.email }
func (e Employee) Phone() string              { return e.phone }
func (e Employee) DisplayName() string        { return e.displayName }
func (e Employee) Department() string         { return e.department }
func (e Employee) DepartmentCode() string     { return e.departmentCode }
func (e Employee) DepartmentID() string       { return e.departmentID }
func (e Employee) JobTitle() string           { return e.jobTitle }
func (e Employee) JobGradeCode() string       { return e.jobGradeCode }
func (e Employee) JobGradeID() string         { return e.jobGradeID }
func (e Employee) Status() Status             { return e.status }
func (e Employee) HireDate() time.Time        { return e.hireDate }
func (e Employee) TerminationDate() time.Time { return e.terminationDate }
func (e Employee) Password() string           { return e.password }
func (e Employee) CreatedAt() time.Time       { return e.createdAt }
func (e Employee) UpdatedAt() time.Time       { return e.updatedAt }
func (e Employee) IsZero() bool               { return e.id == 0 && e.code == "" && e.displayName == "" }

func (e Employee) CustomFields() map[string]string {
	if e.customFields == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(e.customFields))
	for k, v := range e.customFields {
		out[k] = v
	}
	return out
}

// Patch describes a partial change. Nil fields are left untouched, so
// applying a sparse patch never nulls existing data.
type Patch struct {
	Code            *string
	Email           *string
	Phone           *string
	DisplayName     *string
	Department      *string
	DepartmentCode  *string
	DepartmentID    *string
	JobTitle        *string
	JobGradeCode    *string
	JobGradeID      *string
	Status          *Status
	HireDate        *time.Time
	TerminationDate *time.Time
	Password        *string
	CustomFields    map[string]string
}

func (e Employee) Apply(p Patch) Employee {
	out := e
	if p.Code != nil {
		out.code = strings.TrimSpace(*p.Code)
	}
	if p.Email != nil {
		out.email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		out.phone = strings.TrimSpace(*p.Phone)
	}
	if p.DisplayName != nil {
		out.displayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.Department != nil {
		out.department = strings.TrimSpace(*p.Department)
	}
	if p.DepartmentCode != nil {
		out.departmentCode = strings.TrimSpace(*p.DepartmentCode)
	}
	if p.DepartmentID != nil {
		out.departmentID = strings.TrimSpace(*p.DepartmentID)
	}
	if p.JobTitle != nil {
		out.jobTitle = strings.TrimSpace(*p.JobTitle)
	}
	if p.JobGradeCode != nil {
		out.jobGradeCode = strings.TrimSpace(*p.JobGradeCode)
	}
	if p.JobGradeID != nil {
		out.jobGradeID = strings.TrimSpace(*p.JobGradeID)
	}
	if p.Status != nil {
		out.status = *p.Status
	}
	if p.HireDate != nil {
		out.hireDate = *p.HireDate
	}
	if p.TerminationDate != nil {
		out.terminationDate = *p.TerminationDate
	}
	if p.Password != nil {
		out.password = *p.Password
	}
	if len(p.CustomFields) > 0 {
		merged := make(map[string]string, len(e.customFields)+len(p.CustomFields))
		for k, v := range e.customFields {
			merged[k] = v
		}
		for k, v := range p.CustomFields {
			merged[k] = v
		}
		out.customFields = merged
	}
	return out
}
