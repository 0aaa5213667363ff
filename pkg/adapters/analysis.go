package adapters

import (
	"github.com/de-tools/emotion-atlas/pkg/models/api"
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

func MapEmotionRecordsApiToDomain(records []api.EmotionRecord) []domain.RawSample {
	res := make([]domain.RawSample, 0, len(records))
	for _, r := range records {
		sample := domain.RawSample{
			Timestamp:   r.Timestamp,
			Percentages: make(domain.CategoryValues, 0, r.EmotionPercentage.Len()),
		}
		r.EmotionPercentage.Each(func(category string, value float64) {
			sample.Percentages = append(sample.Percentages, domain.CategoryValue{Category: category, Value: value})
		})
		res = append(res, sample)
	}
	return res
}

func MapRawSamplesDomainToApi(samples []domain.RawSample) []api.EmotionRecord {
	res := make([]api.EmotionRecord, 0, len(samples))
	for _, s := range samples {
		percentages := api.NewEmotionPercentages()
		for _, p := range s.Percentages {
			percentages.Set(p.Category, p.Value)
		}
		res = append(res, api.EmotionRecord{Timestamp: s.Timestamp, EmotionPercentage: percentages})
	}
	return res
}

func mapCategoryValues(values domain.CategoryValues) map[string]api.Number {
	res := make(map[string]api.Number, len(values))
	for _, v := range values {
		res[v.Category] = api.Number(v.Value)
	}
	return res
}

func MapAnalysisReportDomainToApi(r *domain.AnalysisReport) api.AnalysisReport {
	res := api.AnalysisReport{
		ProcessedData:      make([]map[string]any, 0, r.Series.Len()),
		TemporalAnalysis:   make([]map[string]any, 0, len(r.Temporal)),
		IdentifiedPatterns: make(map[string]string, len(r.Patterns)),
		EmotionStatistics: api.EmotionStatistics{
			MeanPercentages:    mapCategoryValues(r.Statistics.Means),
			OverallPercentages: mapCategoryValues(r.Statistics.Shares),
			MostCommonEmotion:  r.Statistics.MostCommon,
			LeastCommonEmotion: r.Statistics.LeastCommon,
			StandardDeviations: mapCategoryValues(r.Statistics.StdDevs),
		},
		Predictions: api.Predictions{Note: r.Forecast.Note},
	}

	for i, sample := range r.Series.Samples {
		row := make(map[string]any, len(r.Series.Categories)+1)
		for j, category := range r.Series.Categories {
			row[category] = api.Number(sample.Values[j])
		}
		// set last so a category literally named "timestamp" cannot hide it
		row["timestamp"] = r.Series.Samples[i].Timestamp
		res.ProcessedData = append(res.ProcessedData, row)
	}

	for _, t := range r.Temporal {
		row := make(map[string]any, len(t.Changes)+1)
		row["timestamp"] = t.Timestamp
		for _, c := range t.Changes {
			row[c.Category+"_change"] = api.Number(c.Value)
		}
		res.TemporalAnalysis = append(res.TemporalAnalysis, row)
	}

	for _, p := range r.Patterns {
		res.IdentifiedPatterns[p.Category] = p.Pattern.String()
	}

	if r.Forecast.Values != nil {
		res.Predictions.NaiveForecast = mapCategoryValues(r.Forecast.Values)
	}

	return res
}
