package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/newthinker/algonex/internal/core"
)

const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches stock symbols like AAPL, MSFT, BRK-B, 600519.SH, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9^=-]{1,12}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo fetches daily bars from the Yahoo Finance chart API
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// NewYahoo creates a Yahoo provider. An empty baseURL uses the public endpoint.
func NewYahoo(baseURL string) *Yahoo {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// toYahooSymbol converts internal symbol format to Yahoo format
func toYahooSymbol(symbol string) string {
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

// FetchHistory fetches daily bars within [start, end]. A zero end means now.
func (y *Yahoo) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validateSymbol(symbol); err != nil {
		return nil, core.FieldError(core.ErrConfigInvalid, "symbol", "%v", err)
	}
	if end.IsZero() {
		end = time.Now()
	}

	q := url.Values{}
	q.Set("interval", "1d")
	period1 := int64(0)
	if !start.IsZero() {
		period1 = start.Unix()
	}
	q.Set("period1", fmt.Sprint(period1))
	// period2 is exclusive; extend it so the end date is included.
	q.Set("period2", fmt.Sprint(end.Add(24*time.Hour).Unix()))
	reqURL := fmt.Sprintf("%s/%s?%s", y.baseURL, url.PathEscape(toYahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if result.Chart.Error != nil {
		if result.Chart.Error.Code == "Not Found" {
			return nil, core.FieldError(core.ErrNoData, "symbol", "yahoo: %s", result.Chart.Error.Description)
		}
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, core.FieldError(core.ErrNoData, "symbol", "no data for symbol: %s", symbol)
	}

	r := result.Chart.Result[0]
	quotes := r.Indicators.Quote[0]

	bars := make([]core.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if !quotes.complete(i) {
			continue // Skip missing data
		}
		t := time.Unix(ts, 0).UTC()
		bar := core.PriceBar{
			Date:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:  *quotes.Open[i],
			High:  *quotes.High[i],
			Low:   *quotes.Low[i],
			Close: *quotes.Close[i],
		}
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			bar.Volume = *quotes.Volume[i]
		}
		if inRange(bar.Date, start, end) {
			bars = append(bars, bar)
		}
	}
	return bars, nil
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteIndicator `json:"quote"`
	} `json:"indicators"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// complete reports whether every price field is present at index i.
func (q quoteIndicator) complete(i int) bool {
	for _, series := range [][]*float64{q.Open, q.High, q.Low, q.Close} {
		if i >= len(series) || series[i] == nil {
			return false
		}
	}
	return true
}
