package store

import "time"

type Message struct {
	ID              string
	UserID          string
	SenderName      string
	DominantEmotion string
	Content         string
	SentAt          time.Time
	CreatedAt       time.Time
	History         []byte
	Analysis        []byte
}

type DominantEmotionCount struct {
	Emotion string
	Count   int64
}
