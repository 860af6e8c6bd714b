package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/algonex/internal/strategy"
)

// parseIndicator parses "id" or "id:name=value,name=value".
func parseIndicator(s string) (strategy.IndicatorConfig, error) {
	id, rest, hasParams := strings.Cut(strings.TrimSpace(s), ":")
	id = strings.TrimSpace(id)
	if id == "" {
		return strategy.IndicatorConfig{}, fmt.Errorf("indicator %q: missing id", s)
	}
	ind := strategy.IndicatorConfig{ID: id, Weight: 1}
	if !hasParams || strings.TrimSpace(rest) == "" {
		return ind, nil
	}

	ind.Parameters = make(map[string]float64)
	for _, pair := range strings.Split(rest, ",") {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return strategy.IndicatorConfig{}, fmt.Errorf("indicator %q: expected name=value, got %q", s, pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return strategy.IndicatorConfig{}, fmt.Errorf("indicator %q: parameter %s: %w", s, name, err)
		}
		ind.Parameters[name] = v
	}
	return ind, nil
}

// strategyFromFlags builds a config from --indicator specs and optional
// --weight values, using the shortcut defaults for threshold and confirmation.
func strategyFromFlags(specs []string, weights []float64) (strategy.Config, error) {
	if len(weights) > 0 && len(weights) != len(specs) {
		return strategy.Config{}, fmt.Errorf("%d weights given for %d indicators", len(weights), len(specs))
	}
	inds := make([]strategy.IndicatorConfig, len(specs))
	for i, s := range specs {
		ind, err := parseIndicator(s)
		if err != nil {
			return strategy.Config{}, err
		}
		if len(weights) > 0 {
			ind.Weight = weights[i]
		}
		inds[i] = ind
	}

	switch len(inds) {
	case 1:
		cfg := strategy.Single(inds[0].ID, inds[0].Parameters)
		cfg.Indicators[0].Weight = inds[0].Weight
		return cfg, nil
	case 2:
		return strategy.Dual(inds[0], inds[1]), nil
	case 3:
		return strategy.Triple(inds[0], inds[1], inds[2]), nil
	default:
		// Let the builder report the count error.
		return strategy.Config{
			Indicators:          inds,
			SignalThreshold:     strategy.DefaultThreshold,
			RequireConfirmation: true,
		}, nil
	}
}

// parseDate parses an optional YYYY-MM-DD date; empty gives the zero time.
func parseDate(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date (expected YYYY-MM-DD): %w", flag, err)
	}
	return t, nil
}
