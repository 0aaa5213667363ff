package analysis

import (
	"math"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

// Statistics computes per-category descriptive statistics over the series.
func Statistics(series *domain.Series) domain.EmotionStatistics {
	n := len(series.Categories)
	stats := domain.EmotionStatistics{
		Means:   make(domain.CategoryValues, n),
		Shares:  make(domain.CategoryValues, n),
		StdDevs: make(domain.CategoryValues, n),
	}

	sums := make([]float64, n)
	grandTotal := 0.0
	for j, category := range series.Categories {
		column := series.Column(j)
		sums[j] = sum(column)
		grandTotal += sums[j]

		stats.Means[j] = domain.CategoryValue{Category: category, Value: mean(column)}
		stats.StdDevs[j] = domain.CategoryValue{Category: category, Value: sampleStdDev(column)}
	}

	for j, category := range series.Categories {
		share := 0.0
		if grandTotal > 0 {
			share = sums[j] * 100 / grandTotal
		}
		stats.Shares[j] = domain.CategoryValue{Category: category, Value: share}
	}

	// without samples every share is zero and no category stands out
	if n > 0 && series.Len() > 0 {
		most, least := 0, 0
		for j := 1; j < n; j++ {
			// strict comparisons keep the earliest category on ties
			if stats.Shares[j].Value > stats.Shares[most].Value {
				most = j
			}
			if stats.Shares[j].Value < stats.Shares[least].Value {
				least = j
			}
		}
		mostName, leastName := series.Categories[most], series.Categories[least]
		stats.MostCommon = &mostName
		stats.LeastCommon = &leastName
	}

	return stats
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// mean is NaN for an empty column.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return sum(values) / float64(len(values))
}

// sampleStdDev uses the n-1 denominator and is NaN below two values.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
