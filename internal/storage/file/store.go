// Package file persists the encyclopedia as a single JSON or YAML document
// mapping each identifier to its record.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/monfuse/internal/game/creature"
)

// Format selects the document encoding.
type Format int

const (
	// JSON writes an indented JSON object.
	JSON Format = iota
	// YAML writes a YAML mapping.
	YAML
)

// FormatFor infers the encoding from path's extension. Anything other than
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Store reads and writes one document file.
type Store struct {
	path   string
	format Format
}

// New creates a Store for path using the given format.
//
// Precondition: path must be non-empty.
func New(path string, format Format) *Store {
	return &Store{path: path, format: format}
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

// Load reads every record keyed by identifier. A missing or empty file is an
// empty encyclopedia.
//
// Postcondition: every returned record has non-nil Skills and Mutations.
func (s *Store) Load(ctx context.Context) (map[string]creature.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]creature.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	records, err := Decode(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return records, nil
}

// Save replaces the document with records. The write goes to a temporary
// file in the same directory which is then renamed over the target.
//
// Postcondition: a subsequent Load returns records unchanged.
func (s *Store) Save(ctx context.Context, records map[string]creature.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(s.format, records)
	if err != nil {
		return fmt.Errorf("encoding encyclopedia: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Decode parses a document in format. Unknown fields are rejected. An empty
// document is an empty encyclopedia.
//
// Postcondition: every returned record has non-nil Skills and Mutations.
func Decode(format Format, data []byte) (map[string]creature.Record, error) {
	records := map[string]creature.Record{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	var err error
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&records)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&records)
	}
	if err != nil {
		return nil, err
	}
	out := make(map[string]creature.Record, len(records))
	for id, rec := range records {
		out[id] = rec.Clone()
	}
	return out, nil
}

// Encode renders records in format with two-space indentation. Nil lists are
// written as empty lists.
func Encode(format Format, records map[string]creature.Record) ([]byte, error) {
	normalized := make(map[string]creature.Record, len(records))
	for id, rec := range records {
		normalized[id] = rec.Clone()
	}
	if format == YAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(normalized); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
