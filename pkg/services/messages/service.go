package messages

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/de-tools/emotion-atlas/pkg/adapters"
	"github.com/de-tools/emotion-atlas/pkg/metrics"
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
	"github.com/de-tools/emotion-atlas/pkg/store/archive"
	messagestore "github.com/de-tools/emotion-atlas/pkg/store/duckdb/messages"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	defaultDominantEmotion = "neutral"
)

type Service interface {
	Add(ctx context.Context, message domain.Message) (domain.AnalyzedMessage, error)
	History(ctx context.Context, userID string, page domain.Page) ([]domain.AnalyzedMessage, error)
	Stats(ctx context.Context, userID string) (domain.EmotionCounts, error)
}

type service struct {
	analyzer *analysis.Analyzer
	store    messagestore.Store
	archiver archive.Archiver
	now      func() time.Time
}

func NewService(analyzer *analysis.Analyzer, store messagestore.Store, archiver archive.Archiver) Service {
	if archiver == nil {
		archiver = archive.NewNoop()
	}
	return &service{
		analyzer: analyzer,
		store:    store,
		archiver: archiver,
		now:      time.Now,
	}
}

// Add analyzes the message's emotion history and stores both.
func (s *service) Add(ctx context.Context, message domain.Message) (domain.AnalyzedMessage, error) {
	logger := zerolog.Ctx(ctx)

	start := time.Now()
	report, err := s.analyzer.Analyze(ctx, message.History)
	if err != nil {
		metrics.RecordAnalysis("message", "invalid", len(message.History), time.Since(start))
		return domain.AnalyzedMessage{}, err
	}
	payload, err := analysis.MarshalReport(report)
	if err != nil {
		metrics.RecordAnalysis("message", "error", len(message.History), time.Since(start))
		return domain.AnalyzedMessage{}, err
	}
	metrics.RecordAnalysis("message", "ok", report.Series.Len(), time.Since(start))

	now := s.now().UTC()
	message.ID = uuid.NewString()
	message.CreatedAt = now
	if message.SentAt.IsZero() {
		message.SentAt = now
	}
	if message.DominantEmotion == "" {
		message.DominantEmotion = defaultDominantEmotion
		if dominant, ok := analysis.DominantCategory(report.Forecast.Values); ok {
			message.DominantEmotion = dominant
		}
	}

	analyzed := domain.AnalyzedMessage{Message: message, Analysis: payload}
	row, err := adapters.MapAnalyzedMessageDomainToStore(analyzed)
	if err != nil {
		return domain.AnalyzedMessage{}, err
	}
	if err := s.store.Add(ctx, row); err != nil {
		return domain.AnalyzedMessage{}, fmt.Errorf("failed to store message: %w", err)
	}
	metrics.MessagesStored.Inc()

	key := fmt.Sprintf("%s/%s.json", url.PathEscape(message.UserID), message.ID)
	if err := s.archiver.Archive(ctx, key, payload); err != nil {
		logger.Warn().Err(err).Str("message_id", message.ID).Msg("failed to archive analysis report")
	}

	logger.Info().
		Str("message_id", message.ID).
		Str("user_id", message.UserID).
		Str("dominant_emotion", message.DominantEmotion).
		Int("samples", report.Series.Len()).
		Msg("message stored")

	return analyzed, nil
}

func (s *service) History(ctx context.Context, userID string, page domain.Page) ([]domain.AnalyzedMessage, error) {
	page = NormalizePage(page)

	rows, err := s.store.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	out := make([]domain.AnalyzedMessage, 0, len(rows))
	for _, row := range rows {
		m, err := adapters.MapStoreMessageToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context, userID string) (domain.EmotionCounts, error) {
	counts, err := s.store.CountByDominantEmotion(ctx, userID)
	if err != nil {
		return domain.EmotionCounts{}, fmt.Errorf("failed to count messages: %w", err)
	}

	res := domain.EmotionCounts{UserID: userID, ByDominant: make(map[string]int64, len(counts))}
	for _, c := range counts {
		res.ByDominant[c.Emotion] = c.Count
		res.Total += c.Count
	}
	return res, nil
}

// NormalizePage applies the default limit and clamps out-of-range values.
func NormalizePage(page domain.Page) domain.Page {
	if page.Limit <= 0 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}
