package backtest

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the panel with a header row of date, close, the signal
// columns, ready, action and position.
func (p Panel) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"date", "close"}, p.Columns...)
	header = append(header, "ready", "action", "position")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range p.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Date.Format("2006-01-02"), formatFloat(row.Close))
		for _, s := range row.Signals {
			record = append(record, formatFloat(s))
		}
		record = append(record,
			formatFloat(row.Composite),
			strconv.FormatBool(row.Ready),
			string(row.Action),
			string(row.Position),
		)
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
