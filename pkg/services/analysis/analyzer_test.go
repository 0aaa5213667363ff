package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

func sample(ts string, pairs ...any) domain.RawSample {
	s := domain.RawSample{Timestamp: ts}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Percentages = append(s.Percentages, domain.CategoryValue{
			Category: pairs[i].(string),
			Value:    toFloat(pairs[i+1]),
		})
	}
	return s
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	panic("unsupported value")
}

func twoSampleHistory() []domain.RawSample {
	return []domain.RawSample{
		sample("2025-01-01T00:00:00Z", "happy", 80, "sad", 20),
		sample("2025-01-01T00:00:10Z", "happy", 60, "sad", 40),
	}
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestAnalyzer_TwoSampleScenario(t *testing.T) {
	report, err := NewAnalyzer(Options{}).Analyze(context.Background(), twoSampleHistory())
	require.NoError(t, err)

	stats := report.Statistics
	happyMean, _ := stats.Means.Get("happy")
	sadMean, _ := stats.Means.Get("sad")
	assert.InDelta(t, 70, happyMean, 1e-9)
	assert.InDelta(t, 30, sadMean, 1e-9)

	happyShare, _ := stats.Shares.Get("happy")
	sadShare, _ := stats.Shares.Get("sad")
	assert.InDelta(t, 70, happyShare, 1e-9)
	assert.InDelta(t, 30, sadShare, 1e-9)

	require.NotNil(t, stats.MostCommon)
	require.NotNil(t, stats.LeastCommon)
	assert.Equal(t, "happy", *stats.MostCommon)
	assert.Equal(t, "sad", *stats.LeastCommon)

	require.Len(t, report.Temporal, 1)
	assert.Equal(t, 10.0, report.Temporal[0].ElapsedSeconds)
	happyChange, _ := report.Temporal[0].Changes.Get("happy")
	sadChange, _ := report.Temporal[0].Changes.Get("sad")
	assert.InDelta(t, -2.0, happyChange, 1e-9)
	assert.InDelta(t, 2.0, sadChange, 1e-9)

	assert.Equal(t, []domain.CategoryPattern{
		{Category: "happy", Pattern: domain.PatternDecreasing},
		{Category: "sad", Pattern: domain.PatternIncreasing},
	}, report.Patterns)

	assert.Equal(t, domain.CategoryValues{
		{Category: "happy", Value: 60},
		{Category: "sad", Value: 40},
	}, report.Forecast.Values)
	assert.Equal(t, ForecastNote, report.Forecast.Note)
}

func TestAnalyzer_JSONShape(t *testing.T) {
	data, err := NewAnalyzer(Options{}).AnalyzeJSON(context.Background(), twoSampleHistory())
	require.NoError(t, err)

	out := decode(t, data)
	assert.Len(t, out["processed_data"], 2)

	stats := out["emotion_statistics"].(map[string]any)
	assert.Equal(t, map[string]any{"happy": 70.0, "sad": 30.0}, stats["mean_percentages"])
	assert.Equal(t, map[string]any{"happy": 70.0, "sad": 30.0}, stats["overall_percentages"])
	assert.Equal(t, "happy", stats["most_common_emotion"])
	assert.Equal(t, "sad", stats["least_common_emotion"])

	temporal := out["temporal_analysis"].([]any)
	require.Len(t, temporal, 1)
	entry := temporal[0].(map[string]any)
	assert.Equal(t, "2025-01-01T00:00:10Z", entry["timestamp"])
	assert.Equal(t, -2.0, entry["happy_change"])
	assert.Equal(t, 2.0, entry["sad_change"])

	assert.Equal(t, map[string]any{
		"happy": "Consistent Decrease",
		"sad":   "Consistent Increase",
	}, out["identified_patterns"])

	predictions := out["predictions"].(map[string]any)
	assert.Equal(t, map[string]any{"happy": 60.0, "sad": 40.0}, predictions["naive_forecast"])
	assert.Equal(t, ForecastNote, predictions["note"])
}

func TestAnalyzer_Deterministic(t *testing.T) {
	history := []domain.RawSample{
		sample("2025-08-01T15:26:40Z", "happy", 75, "neutral", 15, "sad", 10),
		sample("2025-08-01T15:26:50Z", "happy", 85, "neutral", 10, "sad", 5),
		sample("2025-08-01T15:27:00Z", "happy", 90, "neutral", 8, "sad", 2),
	}
	analyzer := NewAnalyzer(Options{})

	first, err := analyzer.AnalyzeJSON(context.Background(), history)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := analyzer.AnalyzeJSON(context.Background(), history)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestAnalyzer_CategoryConsistency(t *testing.T) {
	history := []domain.RawSample{
		sample("2025-01-01T00:00:00Z", "neutral", 50, "happy", 30, "angry", 20),
		sample("2025-01-01T00:00:05Z", "neutral", 40, "surprised", 60),
		sample("2025-01-01T00:00:10Z", "happy", 100),
	}
	data, err := NewAnalyzer(Options{}).AnalyzeJSON(context.Background(), history)
	require.NoError(t, err)

	out := decode(t, data)
	want := []string{"angry", "happy", "neutral"}
	stats := out["emotion_statistics"].(map[string]any)
	for _, key := range []string{"mean_percentages", "overall_percentages", "standard_deviations"} {
		assert.ElementsMatch(t, want, keys(stats[key].(map[string]any)), key)
	}
	assert.ElementsMatch(t, want, keys(out["identified_patterns"].(map[string]any)))
	forecast := out["predictions"].(map[string]any)["naive_forecast"].(map[string]any)
	assert.ElementsMatch(t, want, keys(forecast))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestAnalyzer_OverallSharesSumTo100(t *testing.T) {
	history := []domain.RawSample{
		sample("2025-01-01T00:00:00Z", "happy", 12.5, "neutral", 33.3, "sad", 54.2),
		sample("2025-01-01T00:00:02Z", "happy", 1, "neutral", 97, "sad", 2),
		sample("2025-01-01T00:00:04Z", "happy", 70, "neutral", 0.1, "sad", 29.9),
	}
	report, err := NewAnalyzer(Options{}).Analyze(context.Background(), history)
	require.NoError(t, err)

	total := 0.0
	for _, share := range report.Statistics.Shares {
		total += share.Value
	}
	assert.InDelta(t, 100, total, 1e-6)
}

func TestAnalyzer_TemporalLength(t *testing.T) {
	for n := 0; n <= 6; n++ {
		history := make([]domain.RawSample, 0, n)
		for i := 0; i < n; i++ {
			ts := "2025-01-01T00:00:0" + string(rune('0'+i)) + "Z"
			history = append(history, sample(ts, "happy", i*10, "sad", 100-i*10))
		}
		report, err := NewAnalyzer(Options{}).Analyze(context.Background(), history)
		require.NoError(t, err)
		assert.Len(t, report.Temporal, max(n-1, 0), "n=%d", n)
	}
}

func TestAnalyzer_EmptyHistory(t *testing.T) {
	data, err := NewAnalyzer(Options{}).AnalyzeJSON(context.Background(), []domain.RawSample{})
	require.NoError(t, err)

	out := decode(t, data)
	assert.Empty(t, out["processed_data"])
	assert.Empty(t, out["temporal_analysis"])
	assert.Empty(t, out["identified_patterns"])

	stats := out["emotion_statistics"].(map[string]any)
	assert.Nil(t, stats["most_common_emotion"])
	assert.Nil(t, stats["least_common_emotion"])

	predictions := out["predictions"].(map[string]any)
	assert.Equal(t, NoDataForecastNote, predictions["note"])
	_, hasForecast := predictions["naive_forecast"]
	assert.False(t, hasForecast)
}

func TestAnalyzer_MissingCategoryDefaultsToZero(t *testing.T) {
	history := []domain.RawSample{
		sample("2025-01-01T00:00:00Z", "happy", 80, "sad", 20),
		sample("2025-01-01T00:00:10Z", "happy", 90),
	}
	report, err := NewAnalyzer(Options{}).Analyze(context.Background(), history)
	require.NoError(t, err)

	assert.Equal(t, []float64{90, 0}, report.Series.Samples[1].Values)
	sadChange, _ := report.Temporal[0].Changes.Get("sad")
	assert.InDelta(t, -2.0, sadChange, 1e-9)
	sadForecast, _ := report.Forecast.Values.Get("sad")
	assert.Equal(t, 0.0, sadForecast)

	data, err := MarshalReport(report)
	require.NoError(t, err)
	rows := decode(t, data)["processed_data"].([]any)
	assert.Equal(t, 0.0, rows[1].(map[string]any)["sad"])
}

func TestAnalyzer_MalformedTimestamp(t *testing.T) {
	history := []domain.RawSample{
		sample("2025-01-01T00:00:00Z", "happy", 80),
		sample("yesterday", "happy", 60),
	}
	report, err := NewAnalyzer(Options{}).Analyze(context.Background(), history)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Nil(t, report)
}

func TestAnalyzer_NonFiniteValuesSerialize(t *testing.T) {
	history := []domain.RawSample{
		sample("2025-01-01T00:00:00Z", "happy", 80, "sad", 20, "calm", 5),
		sample("2025-01-01T00:00:00Z", "happy", 90, "sad", 10, "calm", 5),
	}
	data, err := NewAnalyzer(Options{}).AnalyzeJSON(context.Background(), history)
	require.NoError(t, err)

	entry := decode(t, data)["temporal_analysis"].([]any)[0].(map[string]any)
	assert.Equal(t, "Infinity", entry["happy_change"])
	assert.Equal(t, "-Infinity", entry["sad_change"])
	assert.Equal(t, "NaN", entry["calm_change"])
}

func TestAnalyzer_SingleSampleStdDevIsNaN(t *testing.T) {
	report, err := NewAnalyzer(Options{}).Analyze(context.Background(), []domain.RawSample{
		sample("2025-01-01T00:00:00Z", "happy", 80),
	})
	require.NoError(t, err)

	std, _ := report.Statistics.StdDevs.Get("happy")
	assert.True(t, math.IsNaN(std))
	assert.Empty(t, report.Temporal)
	assert.Equal(t, domain.PatternIncreasing, report.Patterns[0].Pattern)
}

func TestAnalyzer_ExplicitCategoriesOnEmptyHistory(t *testing.T) {
	report, err := NewAnalyzer(Options{Categories: []string{"happy", "sad"}}).
		Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"happy", "sad"}, report.Series.Categories)
	assert.Nil(t, report.Statistics.MostCommon)
	assert.Nil(t, report.Statistics.LeastCommon)
	assert.Nil(t, report.Forecast.Values)
	assert.Equal(t, NoDataForecastNote, report.Forecast.Note)
}
