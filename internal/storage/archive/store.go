// Package archive persists backtest reports to a local directory or an
// S3-compatible bucket.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/newthinker/algonex/internal/core"
)

// Storage types accepted by Open.
const (
	TypeLocalFS = "localfs"
	TypeS3      = "s3"
)

// Store defines the interface for report storage backends. Paths are
// slash-separated and relative to the store root.
type Store interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under the prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Options selects and configures a store backend.
type Options struct {
	Type string
	Path string
	S3   S3Config
}

// Open creates the store described by opts. An empty type disables archiving
// and returns a nil store.
func Open(opts Options) (Store, error) {
	switch opts.Type {
	case "":
		return nil, nil
	case TypeLocalFS:
		return NewLocalFS(opts.Path)
	case TypeS3:
		return NewS3(opts.S3)
	default:
		return nil, core.FieldError(core.ErrConfigInvalid, "archive.type",
			"unknown storage type %q (want %s or %s)", opts.Type, TypeLocalFS, TypeS3)
	}
}

// RunsPrefix is the root of archived backtest reports.
const RunsPrefix = "runs"

// ReportPath returns runs/<SYMBOL>/<YYYY-MM-DD>/<run-id>.json.
func ReportPath(symbol string, at time.Time, runID string) string {
	return path.Join(RunsPrefix, SymbolDir(symbol), at.UTC().Format("2006-01-02"), runID+".json")
}

// SymbolDir normalizes a symbol for use as one path segment.
func SymbolDir(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
	if s == "" {
		return "_"
	}
	return s
}

// SaveJSON encodes v as indented JSON and writes it to p.
func SaveJSON(ctx context.Context, s Store, p string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", p, err)
	}
	if err := s.Write(ctx, p, data); err != nil {
		return core.WrapError(core.ErrArchiveFailed, fmt.Errorf("writing %s: %w", p, err))
	}
	return nil
}

// LoadJSON reads p and decodes it into v.
func LoadJSON(ctx context.Context, s Store, p string, v any) error {
	data, err := s.Read(ctx, p)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", p, err)
	}
	return nil
}
