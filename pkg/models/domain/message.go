package domain

import "time"

// Message is a chat message annotated with the sender's recent emotion history.
type Message struct {
	ID              string
	UserID          string
	SenderName      string
	DominantEmotion string
	Content         string
	SentAt          time.Time
	CreatedAt       time.Time
	History         []RawSample
}

// AnalyzedMessage pairs a message with its rendered analysis report.
type AnalyzedMessage struct {
	Message  Message
	Analysis []byte
}

type EmotionCounts struct {
	UserID     string
	Total      int64
	ByDominant map[string]int64
}

type Page struct {
	Limit  int
	Offset int
}
