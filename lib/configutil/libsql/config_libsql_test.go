package configlibsql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDsn(t *testing.T) {
	cases := []struct {
		config   Struct
		url      string
		expected string
		fails    bool
	}{
		{url: "libsql://matches.turso.io", expected: "libsql://matches.turso.io"},
		{
			config:   Struct{AuthToken: "secret"},
			url:      "libsql://matches.turso.io",
			expected: "libsql://matches.turso.io?authToken=secret",
		},
		{
			config:   Struct{AuthToken: "secret"},
			url:      "https://matches.turso.io?authToken=inline",
			expected: "https://matches.turso.io?authToken=inline",
		},
		{url: "", fails: true},
		{url: "ftp://matches.turso.io", fails: true},
	}

	for _, c := range cases {
		dsn, err := c.config.Dsn(c.url)
		if c.fails {
			require.Error(t, err, c.url)
			continue
		}
		require.NoError(t, err, c.url)
		require.Equal(t, c.expected, dsn)
	}
}
