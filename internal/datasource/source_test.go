package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/algonex/internal/core"
)

type mockProvider struct {
	name string
}

func (m *mockProvider) Name() string { return m.name }
func (m *mockProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	return nil, nil
}

func mockFactory(name string) Factory {
	return func(path, table string) (Provider, func() error, error) {
		return &mockProvider{name: name}, noop, nil
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", mockFactory("mock"))

	f, ok := r.Get("mock")
	require.True(t, ok)
	p, _, err := f("", "")
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("b", mockFactory("b"))
	r.Register("a", mockFactory("a"))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, []string{KindCSV, KindSQLite, KindYahoo}, DefaultRegistry().Names())
}

func TestRegistry_OpenUnknown(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", mockFactory("mock"))

	p, closeFn, err := r.Open("mock", "", "")
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
	assert.NoError(t, closeFn())

	_, closeFn, err = r.Open("parquet", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
	assert.Contains(t, err.Error(), "want one of: mock")
	assert.NotNil(t, closeFn)
}

func TestInRange(t *testing.T) {
	tests := []struct {
		name       string
		at         time.Time
		start, end time.Time
		want       bool
	}{
		{"open bounds", day(5), time.Time{}, time.Time{}, true},
		{"on start", day(5), day(5), day(9), true},
		{"on end", day(9), day(5), day(9), true},
		{"before", day(4), day(5), time.Time{}, false},
		{"after", day(10), time.Time{}, day(9), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inRange(tt.at, tt.start, tt.end))
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	p, closeFn, err := Open(KindCSV, dir, "")
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Name())
	assert.NoError(t, closeFn())

	p, closeFn, err = Open(KindSQLite, dir+"/bars.db", "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", p.Name())
	assert.NoError(t, closeFn())

	p, _, err = Open(KindYahoo, "data", "")
	require.NoError(t, err)
	assert.Equal(t, yahooBaseURL, p.(*Yahoo).baseURL)

	p, _, err = Open(KindYahoo, "http://localhost:8080/", "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", p.(*Yahoo).baseURL)

	_, closeFn, err = Open("parquet", dir, "")
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
	assert.Contains(t, err.Error(), "csv, sqlite, yahoo")
	assert.NotNil(t, closeFn)

	p, closeFn, err = Open("", dir, "")
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Name())
	assert.NoError(t, closeFn())

	_, _, err = Open(KindCSV, "", "")
	assert.ErrorIs(t, err, core.ErrConfigMissing)
}
