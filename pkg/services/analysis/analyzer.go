package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/de-tools/emotion-atlas/pkg/adapters"
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

// Analyzer turns a short emotion history into an AnalysisReport.
// It holds no mutable state and can be shared between goroutines.
type Analyzer struct {
	opts Options
}

func NewAnalyzer(opts Options) *Analyzer {
	if opts.Vocabulary == "" {
		opts.Vocabulary = VocabularyFirstSample
	}
	opts.Categories = append([]string(nil), opts.Categories...)
	return &Analyzer{opts: opts}
}

// Analyze runs every stage over the history. An empty history produces a
// report with empty sections and the no-data forecast note.
func (a *Analyzer) Analyze(ctx context.Context, raw []domain.RawSample) (*domain.AnalysisReport, error) {
	logger := zerolog.Ctx(ctx)

	series, err := LoadSeries(raw, a.opts)
	if errors.Is(err, ErrEmptyInput) {
		logger.Debug().Msg("empty emotion history, producing empty report")
		series = &domain.Series{
			Categories: dedupe(a.opts.Categories),
			Samples:    []domain.Sample{},
		}
	} else if err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{
		Series:     series,
		Statistics: Statistics(series),
		Temporal:   Temporal(series),
		Patterns:   Patterns(series),
		Forecast:   Forecast(series),
	}

	logger.Debug().
		Int("samples", series.Len()).
		Strs("categories", series.Categories).
		Msg("emotion history analyzed")

	return report, nil
}

// AnalyzeJSON is Analyze followed by MarshalReport.
func (a *Analyzer) AnalyzeJSON(ctx context.Context, raw []domain.RawSample) ([]byte, error) {
	report, err := a.Analyze(ctx, raw)
	if err != nil {
		return nil, err
	}
	return MarshalReport(report)
}

// MarshalReport renders the report as indented JSON. Category maps are
// written with sorted keys, so equal reports always produce equal bytes.
func MarshalReport(report *domain.AnalysisReport) ([]byte, error) {
	data, err := json.MarshalIndent(adapters.MapAnalysisReportDomainToApi(report), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis report: %w", err)
	}
	return data, nil
}
