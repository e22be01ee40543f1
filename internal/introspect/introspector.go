// Package introspect turns connection descriptors into schema.Schema values.
package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"db-compare/internal/dialect"
	"db-compare/internal/schema"

	"golang.org/x/sync/errgroup"
)

// Steps is how many times an introspector reports progress per target.
const Steps = schema.AnalyzeSteps + 1

// Introspector produces the schema of a target. Failures are *IntrospectionError.
type Introspector interface {
	Introspect(ctx context.Context, t Target) (*schema.Schema, error)
}

// StepFunc is called as an introspection advances.
type StepFunc func(t Target)

// SQLIntrospector reads live database catalogs.
type SQLIntrospector struct {
	NormalizeTypes bool
	OnStep         StepFunc
}

func (in *SQLIntrospector) step(t Target) {
	if in.OnStep != nil {
		in.OnStep(t)
	}
}

func (in *SQLIntrospector) Introspect(ctx context.Context, t Target) (*schema.Schema, error) {
	d, err := dialect.GetDialect(t.Driver)
	if err != nil {
		return nil, failure(t, "select dialect", err)
	}

	db, err := openDB(t)
	if err != nil {
		return nil, failure(t, "open", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, failure(t, "connect", err)
	}
	in.step(t)

	name, err := resolveSchema(ctx, db, d, t.Schema)
	if err != nil {
		return nil, failure(t, "resolve schema", err)
	}

	s, err := schema.Analyze(ctx, db, d, name, schema.AnalyzeOptions{
		NormalizeTypes: in.NormalizeTypes,
		OnStep:         func() { in.step(t) },
	})
	if err != nil {
		return nil, failure(t, "read metadata", err)
	}
	return s, nil
}

// resolveSchema picks the explicit schema, else asks the connection, else
// falls back to the dialect default.
func resolveSchema(ctx context.Context, db *sql.DB, d dialect.Dialect, explicit string) (string, error) {
	if explicit != "" {
		return d.GetSchemaName(explicit), nil
	}
	if q := d.CurrentSchemaQuery(); q != "" {
		var current sql.NullString
		if err := db.QueryRowContext(ctx, q).Scan(&current); err != nil {
			return "", fmt.Errorf("failed to get current schema: %w", err)
		}
		if current.Valid && current.String != "" {
			return d.GetSchemaName(current.String), nil
		}
	}
	if name := d.GetSchemaName(""); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("no database selected in DSN")
}

// SnapshotIntrospector loads schemas recorded by the snapshot command.
type SnapshotIntrospector struct {
	OnStep StepFunc
}

func (in *SnapshotIntrospector) Introspect(ctx context.Context, t Target) (*schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure(t, "read snapshot", err)
	}
	s, _, err := schema.ReadSnapshot(t.DSN)
	if err != nil {
		return nil, failure(t, "read snapshot", err)
	}
	if in.OnStep != nil {
		for i := 0; i < Steps; i++ {
			in.OnStep(t)
		}
	}
	return s, nil
}

// Router sends snapshot targets to Snapshot and everything else to SQL.
type Router struct {
	SQL      Introspector
	Snapshot Introspector
}

// NewRouter wires the SQL and snapshot introspectors with a shared progress hook.
func NewRouter(normalizeTypes bool, onStep StepFunc) *Router {
	return &Router{
		SQL:      &SQLIntrospector{NormalizeTypes: normalizeTypes, OnStep: onStep},
		Snapshot: &SnapshotIntrospector{OnStep: onStep},
	}
}

func (r *Router) Introspect(ctx context.Context, t Target) (*schema.Schema, error) {
	if t.Driver == SnapshotDriver {
		return r.Snapshot.Introspect(ctx, t)
	}
	return r.SQL.Introspect(ctx, t)
}

// Pair introspects both targets concurrently. If either fails, Pair returns
// that error and no schemas.
func Pair(ctx context.Context, in Introspector, left, right Target) (*schema.Schema, *schema.Schema, error) {
	g, gctx := errgroup.WithContext(ctx)

	var leftSchema, rightSchema *schema.Schema
	g.Go(func() error {
		s, err := in.Introspect(gctx, left)
		if err != nil {
			return err
		}
		leftSchema = s
		return nil
	})
	g.Go(func() error {
		s, err := in.Introspect(gctx, right)
		if err != nil {
			return err
		}
		rightSchema = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return leftSchema, rightSchema, nil
}
