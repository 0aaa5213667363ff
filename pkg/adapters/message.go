package adapters

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/de-tools/emotion-atlas/pkg/models/api"
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
	"github.com/de-tools/emotion-atlas/pkg/models/store"
)

func MapAnalyzedMessageDomainToStore(m domain.AnalyzedMessage) (*store.Message, error) {
	history, err := json.Marshal(MapRawSamplesDomainToApi(m.Message.History))
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	return &store.Message{
		ID:              m.Message.ID,
		UserID:          m.Message.UserID,
		SenderName:      m.Message.SenderName,
		DominantEmotion: m.Message.DominantEmotion,
		Content:         m.Message.Content,
		SentAt:          m.Message.SentAt,
		CreatedAt:       m.Message.CreatedAt,
		History:         history,
		Analysis:        m.Analysis,
	}, nil
}

func MapStoreMessageToDomain(m *store.Message) (domain.AnalyzedMessage, error) {
	var records []api.EmotionRecord
	if len(m.History) > 0 {
		if err := json.Unmarshal(m.History, &records); err != nil {
			return domain.AnalyzedMessage{}, fmt.Errorf("unmarshal history of message %s: %w", m.ID, err)
		}
	}

	return domain.AnalyzedMessage{
		Message: domain.Message{
			ID:              m.ID,
			UserID:          m.UserID,
			SenderName:      m.SenderName,
			DominantEmotion: m.DominantEmotion,
			Content:         m.Content,
			SentAt:          m.SentAt,
			CreatedAt:       m.CreatedAt,
			History:         MapEmotionRecordsApiToDomain(records),
		},
		Analysis: m.Analysis,
	}, nil
}

func MapAnalyzedMessageDomainToApi(m domain.AnalyzedMessage) api.MessageResponse {
	return api.MessageResponse{
		Message: api.Message{
			ID:              m.Message.ID,
			UserID:          m.Message.UserID,
			SenderName:      m.Message.SenderName,
			DominantEmotion: m.Message.DominantEmotion,
			MessageContent:  m.Message.Content,
			SentAt:          m.Message.SentAt,
			CreatedAt:       m.Message.CreatedAt,
			EmotionHistory:  MapRawSamplesDomainToApi(m.Message.History),
		},
		Analysis: json.RawMessage(m.Analysis),
	}
}

func MapMessageRequestApiToDomain(r api.MessageRequest) domain.Message {
	return domain.Message{
		UserID:          r.UserID,
		SenderName:      r.SenderName,
		DominantEmotion: r.DominantEmotion,
		Content:         r.MessageContent,
		History:         MapEmotionRecordsApiToDomain(r.EmotionHistory),
	}
}

func MapEmotionCountsDomainToApi(c domain.EmotionCounts) api.UserStats {
	res := api.UserStats{
		UserID:           c.UserID,
		TotalMessages:    c.Total,
		DominantEmotions: make(map[string]int64, len(c.ByDominant)),
	}
	for k, v := range c.ByDominant {
		res.DominantEmotions[k] = v
	}
	return res
}
