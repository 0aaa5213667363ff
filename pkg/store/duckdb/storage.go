package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/duckdb/duckdb-go/v2"
)

const MessagesTableSchema = `
	CREATE TABLE IF NOT EXISTS emotion_messages (
		id VARCHAR NOT NULL PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		sender_name VARCHAR,
		dominant_emotion VARCHAR,
		content VARCHAR NOT NULL,
		sent_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		history JSON,
		analysis JSON
	);
`

const MessagesUserIndex = `
	CREATE INDEX IF NOT EXISTS idx_emotion_messages_user ON emotion_messages (user_id, sent_at);
`

var bootQueries = []string{
	MessagesTableSchema,
	MessagesUserIndex,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	dsn := settings.DbPath
	if strings.Contains(dsn, "?") {
		dsn = fmt.Sprintf("%s&threads=%d", dsn, threads)
	} else {
		dsn = fmt.Sprintf("%s?threads=%d", dsn, threads)
	}

	c, err := duckdb.NewConnector(dsn, func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
