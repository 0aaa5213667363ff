package api

import (
	"time"

	"github.com/goccy/go-json"
)

type MessageRequest struct {
	UserID          string          `json:"user_id" validate:"required,max=64"`
	Timestamp       string          `json:"timestamp,omitempty"`
	SenderName      string          `json:"sender_name" validate:"max=100"`
	DominantEmotion string          `json:"dominant_emotion,omitempty" validate:"max=50"`
	MessageContent  string          `json:"message_content" validate:"required,max=4000"`
	EmotionHistory  []EmotionRecord `json:"emotion_history_20s" validate:"dive"`
}

type Message struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	SenderName      string          `json:"sender_name"`
	DominantEmotion string          `json:"dominant_emotion"`
	MessageContent  string          `json:"message_content"`
	SentAt          time.Time       `json:"timestamp"`
	CreatedAt       time.Time       `json:"created_at"`
	EmotionHistory  []EmotionRecord `json:"emotion_history_20s"`
}

type MessageResponse struct {
	Message  Message         `json:"message"`
	Analysis json.RawMessage `json:"analysis"`
}

type HistoryResponse struct {
	UserID   string            `json:"user_id"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Messages []MessageResponse `json:"messages"`
}

type UserStats struct {
	UserID           string           `json:"user_id"`
	TotalMessages    int64            `json:"total_messages"`
	DominantEmotions map[string]int64 `json:"dominant_emotions"`
}
