package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

type Struct struct {
	// appended to the database url as the `authToken` query parameter
	// when the url does not already carry one
	AuthToken string `json:"auth_token"`
}

// Dsn resolves the data source name given to the libsql driver.
func (config Struct) Dsn(rawUrl string) (string, error) {
	if rawUrl == "" {
		return "", fmt.Errorf("a url was not specified")
	}
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return "", err
	}
	switch parsed.Scheme {
	case "libsql", "http", "https", "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported libsql url scheme '%s'", parsed.Scheme)
	}

	query := parsed.Query()
	if config.AuthToken != "" && query.Get("authToken") == "" {
		query.Set("authToken", config.AuthToken)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}

func (config Struct) OpenDB(rawUrl string) (*sql.DB, error) {
	dsn, err := config.Dsn(rawUrl)
	if err != nil {
		return nil, err
	}
	return sql.Open("libsql", dsn)
}
