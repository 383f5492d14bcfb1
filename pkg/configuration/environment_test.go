package configuration

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want logrus.Level
	}{
		{"silent", logrus.PanicLevel},
		{"error", logrus.ErrorLevel},
		{"warn", logrus.WarnLevel},
		{"info", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"", logrus.ErrorLevel},
		{"bogus", logrus.ErrorLevel},
	}
	for _, tc := range cases {
		c := &Configuration{LogLevel: tc.in}
		require.Equal(t, tc.want, c.LogrusLogLevel(), "level %q", tc.in)
	}
}

func TestImportOptionsValidate(t *testing.T) {
	require.NoError(t, (&ImportOptions{MaxRows: 500}).Validate())
	require.Error(t, (&ImportOptions{MaxRows: 0}).Validate())
	require.Error(t, (&ImportOptions{MaxRows: -1}).Validate())
}

func TestDatabaseOptionsConnectionString(t *testing.T) {
	d := DatabaseOptions{
		Name:     "backoffice",
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "secret",
	}
	require.Equal(
		t,
		"host=db.internal port=5433 user=svc dbname=backoffice password=secret sslmode=disable",
		d.ConnectionString(),
	)
}
