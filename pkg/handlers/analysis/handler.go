package analysis

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/emotion-atlas/pkg/adapters"
	"github.com/de-tools/emotion-atlas/pkg/handlers"
	"github.com/de-tools/emotion-atlas/pkg/metrics"
	"github.com/de-tools/emotion-atlas/pkg/models/api"
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
)

type Analyzer interface {
	Analyze(ctx context.Context, raw []domain.RawSample) (*domain.AnalysisReport, error)
}

type Handler struct {
	analyzer Analyzer
}

func NewHandler(analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// Analyze handles POST /api/v1/analysis.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.AnalysisRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		metrics.RecordAnalysis("api", "invalid", 0, 0)
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	report, err := h.analyzer.Analyze(ctx, adapters.MapEmotionRecordsApiToDomain(req.EmotionHistory))
	if err != nil {
		if errors.Is(err, analysis.ErrMalformedInput) {
			metrics.RecordAnalysis("api", "invalid", len(req.EmotionHistory), time.Since(start))
			handlers.WriteError(w, r, http.StatusBadRequest, err)
			return
		}
		metrics.RecordAnalysis("api", "error", len(req.EmotionHistory), time.Since(start))
		handlers.WriteError(w, r, http.StatusInternalServerError, err)
		return
	}

	payload, err := analysis.MarshalReport(report)
	if err != nil {
		metrics.RecordAnalysis("api", "error", report.Series.Len(), time.Since(start))
		handlers.WriteError(w, r, http.StatusInternalServerError, err)
		return
	}
	metrics.RecordAnalysis("api", "ok", report.Series.Len(), time.Since(start))

	logger.Debug().Int("samples", report.Series.Len()).Msg("analysis completed")
	handlers.WriteRaw(w, r, http.StatusOK, payload)
}
