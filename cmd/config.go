package cmd

import (
	"fmt"
	"os"
	"strings"

	"db-compare/internal/dialect"
	"db-compare/internal/introspect"
	"db-compare/internal/server"

	"github.com/spf13/viper"
)

type TokenConfig struct {
	Token string `mapstructure:"token"`
	Role  string `mapstructure:"role"`
}

// LoadTargets returns the configured targets. DSNs may reference environment
// variables as ${NAME}, which .env can supply.
func LoadTargets() ([]introspect.Target, error) {
	var targets []introspect.Target
	if err := viper.UnmarshalKey("targets", &targets); err != nil {
		return nil, fmt.Errorf("failed to parse targets config: %w", err)
	}

	seen := make(map[string]bool, len(targets))
	for i := range targets {
		t := &targets[i]
		if t.Name == "" {
			return nil, fmt.Errorf("target #%d has no name", i+1)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("target %q is configured twice", t.Name)
		}
		seen[t.Name] = true

		if t.Driver != introspect.SnapshotDriver {
			if _, err := dialect.GetDialect(t.Driver); err != nil {
				return nil, fmt.Errorf("target %q: %w", t.Name, err)
			}
		}
		t.DSN = os.ExpandEnv(t.DSN)
		if t.DSN == "" {
			return nil, fmt.Errorf("target %q has no dsn", t.Name)
		}
	}
	return targets, nil
}

// GetTarget resolves a configured target by name. Arguments that look like
// URLs (mysql://..., sqlite://..., snapshot://...) are parsed directly.
func GetTarget(name string) (introspect.Target, error) {
	targets, err := LoadTargets()
	if err != nil {
		return introspect.Target{}, err
	}
	for _, t := range targets {
		if t.Name == name {
			return t, nil
		}
	}

	if strings.Contains(name, "://") {
		return introspect.ParseURL(name)
	}
	if len(targets) == 0 {
		return introspect.Target{}, fmt.Errorf("unknown target %q: no targets configured (use driver://dsn or add targets to db-compare.yaml)", name)
	}
	return introspect.Target{}, fmt.Errorf("unknown target %q", name)
}

// LoadTokens maps API tokens to roles from server.tokens.
func LoadTokens() (map[string]server.Role, error) {
	var entries []TokenConfig
	if err := viper.UnmarshalKey("server.tokens", &entries); err != nil {
		return nil, fmt.Errorf("failed to parse server.tokens config: %w", err)
	}

	tokens := make(map[string]server.Role, len(entries))
	for i, e := range entries {
		token := os.ExpandEnv(e.Token)
		if token == "" {
			return nil, fmt.Errorf("server.tokens #%d has no token", i+1)
		}
		role, err := server.ParseRole(e.Role)
		if err != nil {
			return nil, fmt.Errorf("server.tokens #%d: %w", i+1, err)
		}
		tokens[token] = role
	}
	return tokens, nil
}

// tableFilters picks the include and exclude lists: Flag > Config > all tables.
func tableFilters() (include, skip []string) {
	include = tables
	if len(include) == 0 {
		include = viper.GetStringSlice("settings.tables")
	}
	skip = exclude
	if len(skip) == 0 {
		skip = viper.GetStringSlice("settings.exclude")
	}
	return include, skip
}
