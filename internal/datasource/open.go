package datasource

import (
	"strings"

	"github.com/newthinker/algonex/internal/core"
)

// Source kinds registered by DefaultRegistry.
const (
	KindCSV    = "csv"
	KindSQLite = "sqlite"
	KindYahoo  = "yahoo"
)

// DefaultRegistry returns a registry holding the csv, sqlite and yahoo
// providers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindCSV, openCSV)
	r.Register(KindSQLite, openSQLite)
	r.Register(KindYahoo, openYahoo)
	return r
}

// Open returns the provider for kind from the default registry. For yahoo,
// an http(s) path overrides the API base URL and any other path is ignored.
// The returned close function releases any resources the provider holds and
// is never nil.
func Open(kind, path, table string) (Provider, func() error, error) {
	return DefaultRegistry().Open(kind, path, table)
}

func openCSV(path, _ string) (Provider, func() error, error) {
	if path == "" {
		return nil, noop, missingPath()
	}
	return NewCSV(path), noop, nil
}

func openSQLite(path, table string) (Provider, func() error, error) {
	if path == "" {
		return nil, noop, missingPath()
	}
	db, err := OpenSQLite(path, table)
	if err != nil {
		return nil, noop, err
	}
	return db, db.Close, nil
}

func openYahoo(path, _ string) (Provider, func() error, error) {
	base := ""
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		base = path
	}
	return NewYahoo(base), noop, nil
}

func missingPath() error {
	return core.FieldError(core.ErrConfigMissing, "data.path", "data path is required")
}
