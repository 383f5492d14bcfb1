package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nordwind/backoffice/modules/hrm/importer"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNormalizeFile_AutoDetectsFormat(t *testing.T) {
	csvPath := writeTemp(t, "staff.csv", "name,code\nAlice,E-1\n")
	jsonPath := writeTemp(t, "staff.json", `[{"displayName": "Bob", "employeeCode": "E-2"}]`)

	res, err := normalizeFile(importOptions{input: csvPath, format: "auto"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "Alice", res.Rows[0].DisplayName)

	res, err = normalizeFile(importOptions{input: jsonPath, format: "auto"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "E-2", res.Rows[0].EmployeeCode)
}

func TestNormalizeFile_ExplicitFormatOverridesExtension(t *testing.T) {
	path := writeTemp(t, "staff.txt", "name\nAlice\n")

	res, err := normalizeFile(importOptions{input: path, format: "csv"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
}

func TestNormalizeFile_UnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "staff.csv", "name\nAlice\n")

	_, err := normalizeFile(importOptions{input: path, format: "parquet"})
	require.Error(t, err)
}

func TestNormalizeFile_MissingInput(t *testing.T) {
	_, err := normalizeFile(importOptions{input: filepath.Join(t.TempDir(), "nope.csv"), format: "csv"})
	require.Error(t, err)
}

func TestNormalizeFile_RowCapFlag(t *testing.T) {
	path := writeTemp(t, "staff.csv", "name\nAlice\nBob\nCara\n")

	_, err := normalizeFile(importOptions{input: path, format: "csv", maxRows: 2})
	require.ErrorIs(t, err, importer.ErrTooManyRows)
}

func TestWithCodeCarriesExitCode(t *testing.T) {
	err := withCode(exitValidation, os.ErrInvalid)
	require.ErrorIs(t, err, os.ErrInvalid)
	require.Equal(t, exitValidation, exitCode(err))
	require.Equal(t, exitOK, exitCode(nil))
}
