package introspect

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteReadOnlyURI(t *testing.T) {
	tests := []struct {
		dsn      string
		wantPath string
		wantQS   url.Values
	}{
		{"app.db", "file:app.db", url.Values{"mode": {"ro"}}},
		{"/var/lib/app.db", "file:/var/lib/app.db", url.Values{"mode": {"ro"}}},
		{"app.db?_pragma=busy_timeout(5000)", "file:app.db", url.Values{"mode": {"ro"}, "_pragma": {"busy_timeout(5000)"}}},
		{"file:app.db?cache=shared", "file:app.db", url.Values{"mode": {"ro"}, "cache": {"shared"}}},
		{"file:app.db?mode=rwc", "file:app.db", url.Values{"mode": {"ro"}}},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := sqliteReadOnlyURI(tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, 1, strings.Count(got, "?"), got)

			path, rawQuery, _ := strings.Cut(got, "?")
			assert.Equal(t, tt.wantPath, path)
			q, err := url.ParseQuery(rawQuery)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQS, q)
		})
	}
}

func TestSQLiteReadOnlyURI_RejectsMemory(t *testing.T) {
	for _, dsn := range []string{":memory:", "file::memory:", "file:x?mode=memory"} {
		_, err := sqliteReadOnlyURI(dsn)
		assert.Error(t, err, dsn)
	}
}
