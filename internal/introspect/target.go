package introspect

import (
	"fmt"
	"net/url"
	"strings"
)

// Target describes one database to introspect.
type Target struct {
	Name   string `mapstructure:"name" json:"name"`
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"-"`
	Schema string `mapstructure:"schema" json:"schema,omitempty"`
}

// SnapshotDriver marks targets that are TOML snapshot files rather than live databases.
const SnapshotDriver = "snapshot"

// ParseURL turns a "scheme://..." string into a Target. The scheme picks the
// driver; the remainder becomes a DSN the driver understands.
func ParseURL(raw string) (Target, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return Target{}, fmt.Errorf("not a target URL: %q (want driver://...)", raw)
	}

	t := Target{Name: redact(raw)}
	switch strings.ToLower(scheme) {
	case "mysql":
		t.Driver = "mysql"
		t.DSN = mysqlDSNFromURL(rest)
	case "postgres", "postgresql":
		t.Driver = "postgres"
		t.DSN = raw
	case "pgx":
		t.Driver = "pgx"
		t.DSN = "postgres://" + rest
	case "sqlserver", "mssql":
		t.Driver = "sqlserver"
		t.DSN = "sqlserver://" + rest
	case "oracle":
		t.Driver = "oracle"
		t.DSN = raw
	case "sqlite", "file":
		t.Driver = "sqlite"
		t.DSN = rest
	case SnapshotDriver:
		t.Driver = SnapshotDriver
		t.DSN = rest
	default:
		return Target{}, fmt.Errorf("unsupported database type: %s", scheme)
	}
	if t.DSN == "" || strings.HasSuffix(t.DSN, "://") {
		return Target{}, fmt.Errorf("empty connection string in %q", t.Name)
	}
	return t, nil
}

// mysqlDSNFromURL rewrites user:pass@host:port/db into the driver's
// user:pass@tcp(host:port)/db form.
func mysqlDSNFromURL(rest string) string {
	if strings.Contains(rest, "tcp(") || !strings.Contains(rest, "@") {
		return rest
	}
	at := strings.LastIndex(rest, "@")
	userPass, hostDB := rest[:at], rest[at+1:]
	hostPort, dbname, hasDB := strings.Cut(hostDB, "/")
	if !hasDB {
		return fmt.Sprintf("%s@tcp(%s)/", userPass, hostPort)
	}
	return fmt.Sprintf("%s@tcp(%s)/%s", userPass, hostPort, dbname)
}

// redact hides the password of URL-shaped strings. Strings net/url rejects,
// such as mysql's tcp(host:port) form, are masked by hand.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err == nil {
		if u.User == nil {
			return raw
		}
		return u.Redacted()
	}

	scheme, rest, _ := strings.Cut(raw, "://")
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return raw
	}
	user, _, hasPass := strings.Cut(rest[:at], ":")
	if !hasPass {
		return raw
	}
	return scheme + "://" + user + ":xxxxx" + rest[at:]
}

func (t Target) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Driver
}
