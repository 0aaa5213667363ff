package messages

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/emotion-atlas/pkg/models/store"
)

// Store persists chat messages together with their emotion history and analysis.
type Store interface {
	Add(ctx context.Context, message *store.Message) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*store.Message, error)
	CountByDominantEmotion(ctx context.Context, userID string) ([]store.DominantEmotionCount, error)
}

type messageStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &messageStore{db: db}, nil
}

func (s *messageStore) Add(ctx context.Context, message *store.Message) error {
	query := `
		INSERT INTO emotion_messages (
			id, user_id, sender_name, dominant_emotion, content,
			sent_at, created_at, history, analysis
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		message.ID,
		message.UserID,
		message.SenderName,
		message.DominantEmotion,
		message.Content,
		message.SentAt.UTC(),
		message.CreatedAt.UTC(),
		nullableJSON(message.History),
		nullableJSON(message.Analysis),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *messageStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*store.Message, error) {
	query := `
		SELECT id, user_id, sender_name, dominant_emotion, content, sent_at, created_at,
			CAST(history AS VARCHAR), CAST(analysis AS VARCHAR)
		FROM emotion_messages
		WHERE user_id = ?
		ORDER BY sent_at DESC, created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var (
			m                 store.Message
			sender, dominant  sql.NullString
			history, analysis sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.UserID, &sender, &dominant, &m.Content,
			&m.SentAt, &m.CreatedAt, &history, &analysis); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.SenderName = sender.String
		m.DominantEmotion = dominant.String
		if history.Valid {
			m.History = []byte(history.String)
		}
		if analysis.Valid {
			m.Analysis = []byte(analysis.String)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func (s *messageStore) CountByDominantEmotion(ctx context.Context, userID string) ([]store.DominantEmotionCount, error) {
	query := `
		SELECT COALESCE(dominant_emotion, ''), COUNT(*)
		FROM emotion_messages
		WHERE user_id = ?
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	defer rows.Close()

	counts := make([]store.DominantEmotionCount, 0)
	for rows.Next() {
		var c store.DominantEmotionCount
		if err := rows.Scan(&c.Emotion, &c.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

func nullableJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
