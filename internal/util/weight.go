package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"equipment-catalog/internal"
)

// PoundToGram is the international avoirdupois pound in grams.
const PoundToGram = 453.59237

// WeightToGrams converts a pound value to whole grams, rounding half to even.
func WeightToGrams(weight string) (int, error) {
	pounds, err := parseNumber(weight)
	if err != nil {
		return 0, fmt.Errorf("%w: weight %q: %v", internal.ErrParse, weight, err)
	}
	if pounds < 0 {
		return 0, fmt.Errorf("%w: weight %q is negative", internal.ErrParse, weight)
	}
	grams := math.RoundToEven(pounds * PoundToGram)
	if grams > math.MaxInt32 {
		return 0, fmt.Errorf("%w: weight %q out of range", internal.ErrParse, weight)
	}
	return int(grams), nil
}

// TruncateCost drops the fractional part of a cost toward zero.
func TruncateCost(cost string) (int, error) {
	value, err := parseNumber(cost)
	if err != nil {
		return 0, fmt.Errorf("%w: cost %q: %v", internal.ErrParse, cost, err)
	}
	truncated := math.Trunc(value)
	if truncated > math.MaxInt32 || truncated < math.MinInt32 {
		return 0, fmt.Errorf("%w: cost %q out of range", internal.ErrParse, cost)
	}
	return int(truncated), nil
}

func parseNumber(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return value, nil
}
