package importer

import (
	"strings"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
)

// Row is a canonical import row, independent of the source format.
// Empty string means the field was absent from the source; normalization
// never assigns empty values.
type Row struct {
	ID              string          `json:"id,omitempty"`
	EmployeeCode    string          `json:"employeeCode,omitempty"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	DisplayName     string          `json:"displayName,omitempty"`
	Department      string          `json:"department,omitempty"`
	DepartmentCode  string          `json:"departmentCode,omitempty"`
	DepartmentID    string          `json:"departmentId,omitempty"`
	JobTitle        string          `json:"jobTitle,omitempty"`
	JobGradeCode    string          `json:"jobGradeCode,omitempty"`
	JobGradeID      string          `json:"jobGradeId,omitempty"`
	Status          employee.Status `json:"employmentStatus,omitempty"`
	HireDate        string          `json:"hireDate,omitempty"`
	TerminationDate string          `json:"terminationDate,omitempty"`
	Password        string          `json:"password,omitempty"`

	CustomFields map[string]string `json:"customFields,omitempty"`
}

func (r *Row) setCustom(key, value string) {
	if r.CustomFields == nil {
		r.CustomFields = make(map[string]string)
	}
	r.CustomFields[key] = value
}

// assign puts a value onto the canonical field. It reports false for an
// unparsable status so the caller can record the header as ignored for
// that row.
func (r *Row) assign(field, value string) bool {
	switch field {
	case FieldID:
		r.ID = value
	case FieldEmployeeCode:
		r.EmployeeCode = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldDisplayName:
		r.DisplayName = value
	case FieldDepartment:
		r.Department = value
	case FieldDepartmentCode:
		r.DepartmentCode = value
	case FieldDepartmentID:
		r.DepartmentID = value
	case FieldJobTitle:
		r.JobTitle = value
	case FieldJobGradeCode:
		r.JobGradeCode = value
	case FieldJobGradeID:
		r.JobGradeID = value
	case FieldStatus:
		status, ok := CoerceStatus(value)
		if !ok {
			return false
		}
		r.Status = status
	case FieldHireDate:
		r.HireDate = value
	case FieldTerminationDate:
		r.TerminationDate = value
	case FieldPassword:
		r.Password = value
	default:
		return false
	}
	return true
}

// IsEmpty reports whether nothing was assigned to the row.
func (r *Row) IsEmpty() bool {
	return r.ID == "" &&
		r.EmployeeCode == "" &&
		r.Email == "" &&
		r.Phone == "" &&
		r.DisplayName == "" &&
		r.Department == "" &&
		r.DepartmentCode == "" &&
		r.DepartmentID == "" &&
		r.JobTitle == "" &&
		r.JobGradeCode == "" &&
		r.JobGradeID == "" &&
		r.Status == "" &&
		r.HireDate == "" &&
		r.TerminationDate == "" &&
		r.Password == "" &&
		len(r.CustomFields) == 0
}

// CoerceStatus maps free-form status text (English and Chinese tokens)
// onto the closed employment status enum.
func CoerceStatus(v string) (employee.Status, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "active", "在职":
		return employee.StatusActive, true
	case "on_leave", "leave", "休假":
		return employee.StatusOnLeave, true
	case "terminated", "inactive", "离职":
		return employee.StatusTerminated, true
	}
	return "", false
}
