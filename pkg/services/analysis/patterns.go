package analysis

import (
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

// Patterns labels each category by the direction of its raw values.
func Patterns(series *domain.Series) []domain.CategoryPattern {
	out := make([]domain.CategoryPattern, len(series.Categories))
	for j, category := range series.Categories {
		out[j] = domain.CategoryPattern{
			Category: category,
			Pattern:  classify(series.Column(j)),
		}
	}
	return out
}

// classify checks "increasing" first, so flat and single-value columns
// are reported as increasing.
func classify(values []float64) domain.Pattern {
	if monotonic(values, func(prev, cur float64) bool { return cur >= prev }) {
		return domain.PatternIncreasing
	}
	if monotonic(values, func(prev, cur float64) bool { return cur <= prev }) {
		return domain.PatternDecreasing
	}
	return domain.PatternMixed
}

func monotonic(values []float64, ok func(prev, cur float64) bool) bool {
	for i := 1; i < len(values); i++ {
		if !ok(values[i-1], values[i]) {
			return false
		}
	}
	return true
}
