package domain

import "time"

// CategoryValue is a single emotion category reading.
type CategoryValue struct {
	Category string
	Value    float64
}

// CategoryValues keeps category readings in vocabulary order.
type CategoryValues []CategoryValue

// Get returns the value recorded for category, if any.
func (cv CategoryValues) Get(category string) (float64, bool) {
	for _, v := range cv {
		if v.Category == category {
			return v.Value, true
		}
	}
	return 0, false
}

// RawSample is a caller-supplied observation before normalization.
// Percentages keep the key order of the source document.
type RawSample struct {
	Timestamp   string
	Percentages CategoryValues
}

// Sample is a normalized observation. Values are aligned with Series.Categories.
type Sample struct {
	Timestamp time.Time
	Values    []float64
}

// Series is an ordered, load-time-frozen table of emotion samples.
type Series struct {
	Categories []string
	Samples    []Sample
}

// Len returns the number of samples in the series.
func (s *Series) Len() int {
	return len(s.Samples)
}

// Column returns the values of the category at index idx across all samples.
func (s *Series) Column(idx int) []float64 {
	col := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		col[i] = sample.Values[idx]
	}
	return col
}

// Row returns the sample at index i as category readings.
func (s *Series) Row(i int) CategoryValues {
	row := make(CategoryValues, len(s.Categories))
	for j, category := range s.Categories {
		row[j] = CategoryValue{Category: category, Value: s.Samples[i].Values[j]}
	}
	return row
}

type Pattern int

const (
	PatternIncreasing Pattern = iota
	PatternDecreasing
	PatternMixed
)

func (p Pattern) String() string {
	switch p {
	case PatternIncreasing:
		return "Consistent Increase"
	case PatternDecreasing:
		return "Consistent Decrease"
	default:
		return "No obvious consistent pattern"
	}
}

type CategoryPattern struct {
	Category string
	Pattern  Pattern
}

// EmotionStatistics summarizes every category over the whole series.
type EmotionStatistics struct {
	Means       CategoryValues
	Shares      CategoryValues
	MostCommon  *string
	LeastCommon *string
	StdDevs     CategoryValues
}

// RateOfChange describes one consecutive pair of samples.
type RateOfChange struct {
	Timestamp      time.Time
	ElapsedSeconds float64
	Changes        CategoryValues
}

// Forecast is a last-observation-carried-forward placeholder.
// Values is nil when there was nothing to carry forward.
type Forecast struct {
	Values CategoryValues
	Note   string
}

// AnalysisReport is the immutable result of analysing one series.
type AnalysisReport struct {
	Series     *Series
	Statistics EmotionStatistics
	Temporal   []RateOfChange
	Patterns   []CategoryPattern
	Forecast   Forecast
}
