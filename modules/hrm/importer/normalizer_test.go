package importer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
)

func TestNormalizeCSV_BilingualHeaders(t *testing.T) {
	csvText := "姓名,邮箱,员工状态\n王晓华,xiaohua@example.com,在职\n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	require.Equal(t, "王晓华", row.DisplayName)
	require.Equal(t, "xiaohua@example.com", row.Email)
	require.Equal(t, employee.StatusActive, row.Status)

	require.ElementsMatch(t, []string{"姓名", "邮箱", "员工状态"}, res.RecognizedHeaders)
	require.Empty(t, res.IgnoredHeaders)
}

func TestNormalizeCSV_UnknownHeaderNeverRecognized(t *testing.T) {
	csvText := "name,favorite_color\nAlice,blue\nBob,green\n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.NotContains(t, res.RecognizedHeaders, "favorite_color")
	require.Contains(t, res.IgnoredHeaders, "favorite_color")
}

func TestNormalizeCSV_EmptyRowsDropped(t *testing.T) {
	csvText := "name,email\nAlice,alice@example.com\n , \n,\nBob,bob@example.com\n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, "Alice", res.Rows[0].DisplayName)
	require.Equal(t, "Bob", res.Rows[1].DisplayName)
}

func TestNormalizeCSV_AllRowsEmptyIsNotAnError(t *testing.T) {
	csvText := "name,email\n,\n , \n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Empty(t, res.Rows)
}

func TestNormalizeCSV_CustomFieldPrefix(t *testing.T) {
	csvText := "name,custom.badge_color,custom.locker\nAlice,blue,17\n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, map[string]string{"badge_color": "blue", "locker": "17"}, res.Rows[0].CustomFields)
	require.Contains(t, res.RecognizedHeaders, "custom.badge_color")
	require.Contains(t, res.RecognizedHeaders, "custom.locker")
}

func TestNormalizeCSV_StatusHeaderRecognizedAndIgnored(t *testing.T) {
	// The status column coerces on row one and fails on row two; the
	// header ends up in both sets, and recognition dominates.
	csvText := "name,status\nAlice,在职\nBob,definitely-employed\n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, employee.StatusActive, res.Rows[0].Status)
	require.Equal(t, employee.Status(""), res.Rows[1].Status)
	require.Contains(t, res.RecognizedHeaders, "status")
	require.Contains(t, res.IgnoredHeaders, "status")
}

func TestNormalizeCSV_RowCapRejectedOutright(t *testing.T) {
	var b strings.Builder
	b.WriteString("name\n")
	for i := 0; i < DefaultMaxRows+1; i++ {
		fmt.Fprintf(&b, "employee-%d\n", i)
	}

	_, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(b.String()))
	require.ErrorIs(t, err, ErrTooManyRows)
}

func TestNormalizeCSV_StripsBOM(t *testing.T) {
	csvText := "\xEF\xBB\xBFname\nAlice\n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "Alice", res.Rows[0].DisplayName)
}

func TestNormalizeCSV_MalformedQuotingAborts(t *testing.T) {
	csvText := "name,email\n\"Alice,alice@example.com\n"

	_, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.Error(t, err)
}

func TestNormalizeCSV_RaggedRowsTolerated(t *testing.T) {
	csvText := "name,email,phone\nAlice\nBob,bob@example.com,555-0101,extra\n"

	res, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, "Alice", res.Rows[0].DisplayName)
	require.Equal(t, "555-0101", res.Rows[1].Phone)
}

func TestNormalizeCSV_MissingHeaderRow(t *testing.T) {
	_, err := NewNormalizer(0).NormalizeCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestNormalizeJSON_HappyPath(t *testing.T) {
	body := `[
		{"displayName": "Alice", "employeeCode": "E-100", "hireDate": "2024-03-01"},
		{"displayName": "Bob", "email": "bob@example.com", "unknownKey": "ignored"}
	]`

	res, err := NewNormalizer(0).NormalizeJSON([]byte(body))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, "E-100", res.Rows[0].EmployeeCode)
	require.Equal(t, "2024-03-01", res.Rows[0].HireDate)
	require.Equal(t, "bob@example.com", res.Rows[1].Email)
	require.Contains(t, res.IgnoredHeaders, "unknownKey")
}

func TestNormalizeJSON_CustomFieldsObject(t *testing.T) {
	body := `[{"displayName": "Alice", "customFields": {"badge": "blue", "locker": "17"}}]`

	res, err := NewNormalizer(0).NormalizeJSON([]byte(body))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, map[string]string{"badge": "blue", "locker": "17"}, res.Rows[0].CustomFields)
}

func TestNormalizeJSON_ScalarCoercion(t *testing.T) {
	body := `[{"displayName": "Alice", "employeeCode": 100, "phone": null}]`

	res, err := NewNormalizer(0).NormalizeJSON([]byte(body))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "100", res.Rows[0].EmployeeCode)
	require.Empty(t, res.Rows[0].Phone)
}

func TestNormalizeJSON_ShapeViolations(t *testing.T) {
	n := NewNormalizer(2)

	_, err := n.NormalizeJSON([]byte(`{"displayName": "Alice"}`))
	require.ErrorIs(t, err, ErrNotAnArray)

	_, err = n.NormalizeJSON([]byte(`[]`))
	require.ErrorIs(t, err, ErrEmptyBatch)

	_, err = n.NormalizeJSON([]byte(`[{"displayName":"a"},{"displayName":"b"},{"displayName":"c"}]`))
	require.ErrorIs(t, err, ErrTooManyRows)

	_, err = n.NormalizeJSON([]byte(`not json`))
	require.Error(t, err)
}

func TestNormalizeXLSX_FirstSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"姓名", "工号", "员工状态"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"王晓华", "E-1", "离职"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := NewNormalizer(0).NormalizeXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "王晓华", res.Rows[0].DisplayName)
	require.Equal(t, "E-1", res.Rows[0].EmployeeCode)
	require.Equal(t, employee.StatusTerminated, res.Rows[0].Status)
}

func TestCoerceStatus(t *testing.T) {
	cases := []struct {
		in     string
		want   employee.Status
		wantOK bool
	}{
		{"active", employee.StatusActive, true},
		{"Active", employee.StatusActive, true},
		{"在职", employee.StatusActive, true},
		{"on_leave", employee.StatusOnLeave, true},
		{"leave", employee.StatusOnLeave, true},
		{"休假", employee.StatusOnLeave, true},
		{"terminated", employee.StatusTerminated, true},
		{"inactive", employee.StatusTerminated, true},
		{"离职", employee.StatusTerminated, true},
		{"  ACTIVE  ", employee.StatusActive, true},
		{"foo", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := CoerceStatus(tc.in)
		require.Equal(t, tc.wantOK, ok, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
