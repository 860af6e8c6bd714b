package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/newthinker/algonex/internal/core"
)

var day0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

// closesToBars builds daily bars with a one point range around each close.
func closesToBars(closes ...float64) []core.PriceBar {
	bars := make([]core.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = core.PriceBar{
			Date:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// hlc builds one bar from high, low and close.
func hlc(i int, high, low, close float64) core.PriceBar {
	return core.PriceBar{
		Date:   day0.AddDate(0, 0, i),
		Open:   close,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 1000,
	}
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func assertNaNBefore(t *testing.T, line []float64, start int) {
	t.Helper()
	for i := 0; i < start && i < len(line); i++ {
		if !math.IsNaN(line[i]) {
			t.Errorf("line[%d] = %f, want NaN before warm-up", i, line[i])
		}
	}
}
