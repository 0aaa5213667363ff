package api

type EmotionRecord struct {
	Timestamp         string             `json:"timestamp" validate:"required" jsonschema:"description=ISO-8601 timestamp"`
	EmotionPercentage EmotionPercentages `json:"emotion_percentage"`
}

type AnalysisRequest struct {
	EmotionHistory []EmotionRecord `json:"emotion_history_20s" validate:"required,dive" jsonschema:"required"`
}

type AnalysisReport struct {
	ProcessedData      []map[string]any  `json:"processed_data"`
	EmotionStatistics  EmotionStatistics `json:"emotion_statistics"`
	TemporalAnalysis   []map[string]any  `json:"temporal_analysis"`
	IdentifiedPatterns map[string]string `json:"identified_patterns"`
	Predictions        Predictions       `json:"predictions"`
}

type EmotionStatistics struct {
	MeanPercentages    map[string]Number `json:"mean_percentages"`
	OverallPercentages map[string]Number `json:"overall_percentages"`
	MostCommonEmotion  *string           `json:"most_common_emotion"`
	LeastCommonEmotion *string           `json:"least_common_emotion"`
	StandardDeviations map[string]Number `json:"standard_deviations"`
}

type Predictions struct {
	NaiveForecast map[string]Number `json:"naive_forecast,omitempty"`
	Note          string            `json:"note"`
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}
