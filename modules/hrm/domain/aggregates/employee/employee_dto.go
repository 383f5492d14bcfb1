package employee

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nordwind/backoffice/pkg/constants"
	"github.com/nordwind/backoffice/pkg/serrors"
)

type CreateDTO struct {
	Code        string `json:"code"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	DisplayName string `json:"display_name" validate:"required"`
	Department  string `json:"department"`
	JobTitle    string `json:"job_title"`
	Status      string `json:"status"`
	HireDate    string `json:"hire_date"`
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.TrimSpace(d.Code)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.DisplayName = strings.TrimSpace(d.DisplayName)
	d.Department = strings.TrimSpace(d.Department)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.Status = strings.TrimSpace(d.Status)
	d.HireDate = strings.TrimSpace(d.HireDate)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

func (d *CreateDTO) ToEntity() (Employee, error) {
	entity := New(d.DisplayName).Apply(Patch{
		Code:       &d.Code,
		Email:      &d.Email,
		Phone:      &d.Phone,
		Department: &d.Department,
		JobTitle:   &d.JobTitle,
	})
	if d.Status != "" {
		status, ok := ParseStatus(d.Status)
		if !ok {
			return Employee{}, serrors.NewError("EMPLOYEE_INVALID_STATUS", "unknown employment status", "Status")
		}
		entity = entity.Apply(Patch{Status: &status})
	}
	if d.HireDate != "" {
		t, err := time.ParseInLocation("2006-01-02", d.HireDate, time.UTC)
		if err != nil {
			return Employee{}, serrors.NewError("EMPLOYEE_INVALID_HIRE_DATE", "hire date must be YYYY-MM-DD", "HireDate")
		}
		entity = entity.Apply(Patch{HireDate: &t})
	}
	return entity, nil
}

type UpdateDTO struct {
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	JobTitle   string `json:"job_title"`
	Status     string `json:"status"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}
