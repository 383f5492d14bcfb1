package importer

import "strings"

// Canonical field names of an import row. These are the only targets a
// source column can map to; everything else goes through the custom
// field prefix or is ignored.
const (
	FieldID              = "id"
	FieldEmployeeCode    = "employeeCode"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldDisplayName     = "displayName"
	FieldDepartment      = "department"
	FieldDepartmentCode  = "departmentCode"
	FieldDepartmentID    = "departmentId"
	FieldJobTitle        = "jobTitle"
	FieldJobGradeCode    = "jobGradeCode"
	FieldJobGradeID      = "jobGradeId"
	FieldStatus          = "employmentStatus"
	FieldHireDate        = "hireDate"
	FieldTerminationDate = "terminationDate"
	FieldPassword        = "password"
)

// CustomFieldPrefix routes a column into the row's custom field map:
// "custom.badge_color" lands under key "badge_color".
const CustomFieldPrefix = "custom."

// headerAliases maps normalized (trimmed, lower-cased) source column
// names to canonical fields. Chinese variants mirror the spreadsheets HR
// actually uploads.
var headerAliases = map[string]string{
	"id":          FieldID,
	"internal id": FieldID,
	"internal_id": FieldID,

	"code":          FieldEmployeeCode,
	"employee code": FieldEmployeeCode,
	"employee_code": FieldEmployeeCode,
	"employeecode":  FieldEmployeeCode,
	"工号":            FieldEmployeeCode,
	"员工编号":          FieldEmployeeCode,

	"email":  FieldEmail,
	"e-mail": FieldEmail,
	"mail":   FieldEmail,
	"邮箱":     FieldEmail,
	"电子邮箱":   FieldEmail,

	"phone":  FieldPhone,
	"mobile": FieldPhone,
	"tel":    FieldPhone,
	"电话":     FieldPhone,
	"手机号":    FieldPhone,

	"name":         FieldDisplayName,
	"full name":    FieldDisplayName,
	"display name": FieldDisplayName,
	"display_name": FieldDisplayName,
	"displayname":  FieldDisplayName,
	"姓名":           FieldDisplayName,

	"department": FieldDepartment,
	"dept":       FieldDepartment,
	"部门":         FieldDepartment,

	"department code": FieldDepartmentCode,
	"department_code": FieldDepartmentCode,
	"departmentcode":  FieldDepartmentCode,
	"部门编码":            FieldDepartmentCode,

	"department id": FieldDepartmentID,
	"department_id": FieldDepartmentID,
	"departmentid":  FieldDepartmentID,

	"title":     FieldJobTitle,
	"job title": FieldJobTitle,
	"job_title": FieldJobTitle,
	"jobtitle":  FieldJobTitle,
	"position":  FieldJobTitle,
	"职位":        FieldJobTitle,
	"岗位":        FieldJobTitle,

	"grade":          FieldJobGradeCode,
	"job grade":      FieldJobGradeCode,
	"job_grade_code": FieldJobGradeCode,
	"jobgradecode":   FieldJobGradeCode,
	"职级":             FieldJobGradeCode,
	"职级编码":           FieldJobGradeCode,

	"job_grade_id": FieldJobGradeID,
	"jobgradeid":   FieldJobGradeID,

	"status":            FieldStatus,
	"employment status": FieldStatus,
	"employment_status": FieldStatus,
	"employmentstatus":  FieldStatus,
	"状态":                FieldStatus,
	"员工状态":              FieldStatus,

	"hire date": FieldHireDate,
	"hire_date": FieldHireDate,
	"hiredate":  FieldHireDate,
	"hired":     FieldHireDate,
	"入职日期":      FieldHireDate,

	"termination date": FieldTerminationDate,
	"termination_date": FieldTerminationDate,
	"terminationdate":  FieldTerminationDate,
	"离职日期":             FieldTerminationDate,

	"password":         FieldPassword,
	"initial password": FieldPassword,
	"初始密码":             FieldPassword,
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// CanonicalField resolves a raw column name to a canonical field name.
func CanonicalField(header string) (string, bool) {
	field, ok := headerAliases[normalizeHeader(header)]
	return field, ok
}
