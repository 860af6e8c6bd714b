package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/algonex/internal/core"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"20060102",
}

// CSV reads bars from files named <SYMBOL>.csv under a directory, or from a
// single file when Path names one.
type CSV struct {
	path string
}

// NewCSV creates a CSV provider rooted at path
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (c *CSV) Name() string {
	return "csv"
}

// FileFor returns the file backing symbol.
func (c *CSV) FileFor(symbol string) string {
	if info, err := os.Stat(c.path); err == nil && !info.IsDir() {
		return c.path
	}
	return filepath.Join(c.path, strings.ToUpper(strings.TrimSpace(symbol))+".csv")
}

func (c *CSV) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.FileFor(symbol))
	if err != nil {
		return nil, fmt.Errorf("opening bars for %s: %w", symbol, err)
	}
	defer f.Close()

	bars, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading bars for %s: %w", symbol, err)
	}

	out := bars[:0]
	for _, b := range bars {
		if inRange(b.Date, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ReadCSV parses bars from r. The header row names the columns, matched
// case-insensitively: date, open, high, low, close and an optional volume.
// The yfinance export layout, a "Price" header followed by "Ticker" and
// "Date" label rows, is also accepted.
func ReadCSV(r io.Reader) ([]core.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []core.PriceBar{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	bars := []core.PriceBar{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isLabelRow(record) {
			continue
		}
		bar, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

type columns struct {
	date, open, high, low, close, volume int
}

func columnIndex(header []string) (columns, error) {
	cols := columns{-1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))) {
		case "date", "time", "timestamp":
			cols.date = i
		case "price":
			if i == 0 && cols.date < 0 {
				cols.date = i
			}
		case "open":
			cols.open = i
		case "high":
			cols.high = i
		case "low":
			cols.low = i
		case "close":
			cols.close = i
		case "volume", "vol":
			cols.volume = i
		}
	}
	required := map[string]int{"date": cols.date, "open": cols.open, "high": cols.high, "low": cols.low, "close": cols.close}
	for _, name := range []string{"date", "open", "high", "low", "close"} {
		if required[name] < 0 {
			return cols, fmt.Errorf("missing %q column", name)
		}
	}
	return cols, nil
}

// isLabelRow reports whether record is one of the yfinance label rows.
func isLabelRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(record[0])) {
	case "ticker", "date":
		return true
	}
	return false
}

func parseRecord(record []string, cols columns) (core.PriceBar, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := parseDate(field(cols.date))
	if err != nil {
		return core.PriceBar{}, err
	}
	bar := core.PriceBar{Date: date}
	for _, f := range []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"open", cols.open, &bar.Open},
		{"high", cols.high, &bar.High},
		{"low", cols.low, &bar.Low},
		{"close", cols.close, &bar.Close},
	} {
		v, err := strconv.ParseFloat(field(f.idx), 64)
		if err != nil {
			return core.PriceBar{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	if raw := field(cols.volume); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.PriceBar{}, fmt.Errorf("volume: %w", err)
		}
		bar.Volume = v
	}
	return bar, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// WriteCSV writes bars with a date,open,high,low,close,volume header.
func WriteCSV(w io.Writer, bars []core.PriceBar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		record := []string{
			b.Date.UTC().Format("2006-01-02"),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
