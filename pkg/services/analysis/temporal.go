package analysis

import (
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

// Temporal computes the per-second rate of change of every category between
// consecutive samples. Elapsed time is taken as-is: a zero gap yields ±Inf
// (or NaN when the value did not move either) and a negative gap flips the sign.
func Temporal(series *domain.Series) []domain.RateOfChange {
	if series.Len() < 2 {
		return []domain.RateOfChange{}
	}

	out := make([]domain.RateOfChange, 0, series.Len()-1)
	for i := 1; i < series.Len(); i++ {
		prev, cur := series.Samples[i-1], series.Samples[i]
		elapsed := cur.Timestamp.Sub(prev.Timestamp).Seconds()

		changes := make(domain.CategoryValues, len(series.Categories))
		for j, category := range series.Categories {
			changes[j] = domain.CategoryValue{
				Category: category,
				Value:    (cur.Values[j] - prev.Values[j]) / elapsed,
			}
		}

		out = append(out, domain.RateOfChange{
			Timestamp:      cur.Timestamp,
			ElapsedSeconds: elapsed,
			Changes:        changes,
		})
	}
	return out
}
