package indicator

import (
	"math"
	"testing"

	"github.com/newthinker/algonex/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestBollinger_PopulationStd(t *testing.T) {
	out := Bollinger(closesToBars(1, 2, 3), 3, 2)

	assert.Equal(t, 2, out.Start)
	std := math.Sqrt(2.0 / 3.0)
	assert.Equal(t, 2.0, out.Line(LineMiddle)[2])
	assert.InDelta(t, 2+2*std, out.Line(LineUpper)[2], 1e-12)
	assert.InDelta(t, 2-2*std, out.Line(LineLower)[2], 1e-12)
	assertNaNBefore(t, out.Line(LineUpper), 2)
}

func TestStdBands_SampleStd(t *testing.T) {
	out := StdBands(closesToBars(1, 2, 3), 3, 2)

	assert.InDelta(t, 4.0, out.Line(LineUpper)[2], 1e-12)
	assert.InDelta(t, 0.0, out.Line(LineLower)[2], 1e-12)
}

func TestZScore(t *testing.T) {
	z := ZScore(closesToBars(1, 2, 3), 3).Line(LineZScore)

	assert.InDelta(t, 1/math.Sqrt(2.0/3.0), z[2], 1e-12)
}

func TestZScore_FlatWindow(t *testing.T) {
	z := ZScore(closesToBars(4, 4, 4, 4), 3).Line(LineZScore)

	assert.Equal(t, 0.0, z[2])
	assert.Equal(t, 0.0, z[3])
}

func TestATR_ConstantRange(t *testing.T) {
	bars := make([]core.PriceBar, 8)
	for i := range bars {
		bars[i] = hlc(i, 11, 9, 10)
	}

	out := ATR(bars, 3, 2)

	assert.Equal(t, 4, out.Start)
	assert.Equal(t, 2.0, out.Line(LineTR)[0])
	assertNaNBefore(t, out.Line(LineATR), 3)
	assert.Equal(t, 2.0, out.Line(LineATR)[3])
	assertNaNBefore(t, out.Line(LineUpper), 4)
	assert.Equal(t, 14.0, out.Line(LineUpper)[4])
	assert.Equal(t, 6.0, out.Line(LineLower)[4])
}

func TestATR_SeedSkipsFirstBar(t *testing.T) {
	// TR: [0]=10 (ignored), [1]=2, [2]=4
	bars := []core.PriceBar{
		hlc(0, 20, 10, 15),
		hlc(1, 16, 14, 15),
		hlc(2, 17, 13, 15),
		hlc(3, 16, 14, 15),
	}

	atr := ATR(bars, 2, 1).Line(LineATR)

	assert.Equal(t, 3.0, atr[2])
	// (3*1 + 2)/2
	assert.Equal(t, 2.5, atr[3])
}

func TestATR_Empty(t *testing.T) {
	out := ATR(nil, 14, 2)

	assert.Empty(t, out.Line(LineATR))
}

func TestRVI_RisingSeries(t *testing.T) {
	out := RVI(closesToBars(rising(10)...), 3)
	rvi := out.Line(LineRVI)

	assert.Equal(t, 4, out.Start)
	assertNaNBefore(t, rvi, 4)
	for i := 4; i < 10; i++ {
		assert.Equal(t, 100.0, rvi[i], "index %d", i)
	}
}

func TestRVI_FlatSeriesIsNeutral(t *testing.T) {
	rvi := RVI(closesToBars(5, 5, 5, 5, 5, 5), 3).Line(LineRVI)

	assert.Equal(t, 50.0, rvi[4])
	assert.Equal(t, 50.0, rvi[5])
}
