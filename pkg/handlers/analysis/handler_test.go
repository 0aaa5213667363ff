package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/emotion-atlas/pkg/models/api"
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, raw []domain.RawSample) (*domain.AnalysisReport, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisReport), args.Error(1)
}

const twoSamples = `{
	"emotion_history_20s": [
		{"timestamp": "2025-08-01T15:27:55Z", "emotion_percentage": {"neutral": 80, "happy": 20}},
		{"timestamp": "2025-08-01T15:28:05Z", "emotion_percentage": {"neutral": 60, "happy": 40}}
	]
}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func TestHandler_Analyze(t *testing.T) {
	h := NewHandler(analysis.NewAnalyzer(analysis.Options{}))

	rec := post(h, twoSamples)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	stats := report["emotion_statistics"].(map[string]any)
	assert.Equal(t, map[string]any{"neutral": 70.0, "happy": 30.0}, stats["mean_percentages"])
	assert.Equal(t, "neutral", stats["most_common_emotion"])
	assert.Equal(t, map[string]any{"neutral": "Consistent Decrease", "happy": "Consistent Increase"},
		report["identified_patterns"])

	temporal := report["temporal_analysis"].([]any)
	require.Len(t, temporal, 1)
	assert.Equal(t, 2.0, temporal[0].(map[string]any)["happy_change"])

	predictions := report["predictions"].(map[string]any)
	assert.Equal(t, map[string]any{"neutral": 60.0, "happy": 40.0}, predictions["naive_forecast"])
	assert.Equal(t, analysis.ForecastNote, predictions["note"])
}

func TestHandler_Analyze_EmptyHistory(t *testing.T) {
	h := NewHandler(analysis.NewAnalyzer(analysis.Options{}))

	rec := post(h, `{"emotion_history_20s": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	predictions := report["predictions"].(map[string]any)
	assert.Equal(t, analysis.NoDataForecastNote, predictions["note"])
	assert.NotContains(t, predictions, "naive_forecast")
}

func TestHandler_Analyze_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "invalid json",
			body:    `{"emotion_history_20s": [`,
			wantErr: "invalid JSON body",
		},
		{
			name:    "missing history",
			body:    `{}`,
			wantErr: "is required",
		},
		{
			name:    "missing timestamp",
			body:    `{"emotion_history_20s": [{"emotion_percentage": {"happy": 1}}]}`,
			wantErr: "Timestamp is required",
		},
		{
			name:    "unparseable timestamp",
			body:    `{"emotion_history_20s": [{"timestamp": "yesterday", "emotion_percentage": {"happy": 1}}]}`,
			wantErr: "malformed emotion history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(analysis.NewAnalyzer(analysis.Options{}))
			rec := post(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.wantErr)
		})
	}
}

func TestHandler_Analyze_InternalError(t *testing.T) {
	m := new(mockAnalyzer)
	m.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	rec := post(NewHandler(m), twoSamples)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Internal Server Error", resp.Error)
	m.AssertExpectations(t)
}
