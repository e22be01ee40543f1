package schema

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// snapshotFile is the on-disk layout of a snapshot. Tables are written as an
// ordered array so files diff cleanly under version control.
type snapshotFile struct {
	Name    string          `toml:"name"`
	Driver  string          `toml:"driver,omitempty"`
	TakenAt time.Time       `toml:"taken_at"`
	Tables  []snapshotTable `toml:"tables"`
}

type snapshotTable struct {
	Name    string   `toml:"name"`
	Columns []Column `toml:"columns"`
}

// SnapshotMeta describes where a snapshot came from.
type SnapshotMeta struct {
	Driver  string
	TakenAt time.Time
}

// WriteSnapshot serialises s as TOML into path.
func WriteSnapshot(path string, s *Schema, meta SnapshotMeta) error {
	data, err := EncodeSnapshot(s, meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func EncodeSnapshot(s *Schema, meta SnapshotMeta) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("encode snapshot: nil schema")
	}
	f := snapshotFile{
		Name:    s.Name,
		Driver:  meta.Driver,
		TakenAt: meta.TakenAt.UTC().Truncate(time.Second),
	}
	for _, name := range s.TableNames() {
		t := s.Tables[name]
		cols := make([]Column, len(t.Columns))
		copy(cols, t.Columns)
		f.Tables = append(f.Tables, snapshotTable{Name: name, Columns: cols})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Schema, SnapshotMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, SnapshotMeta{}, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

func DecodeSnapshot(data []byte) (*Schema, SnapshotMeta, error) {
	var f snapshotFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, SnapshotMeta{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, SnapshotMeta{}, fmt.Errorf("unknown snapshot keys: %s", strings.Join(keys, ", "))
	}

	s := NewSchema(f.Name)
	for _, t := range f.Tables {
		if t.Name == "" {
			return nil, SnapshotMeta{}, fmt.Errorf("snapshot table without name")
		}
		if _, dup := s.Tables[t.Name]; dup {
			return nil, SnapshotMeta{}, fmt.Errorf("snapshot table %q listed twice", t.Name)
		}
		seen := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			if seen[c.Name] {
				return nil, SnapshotMeta{}, fmt.Errorf("snapshot table %q: column %q listed twice", t.Name, c.Name)
			}
			seen[c.Name] = true
		}
		s.AddTable(Table{Name: t.Name, Columns: t.Columns})
	}
	return s, SnapshotMeta{Driver: f.Driver, TakenAt: f.TakenAt}, nil
}
