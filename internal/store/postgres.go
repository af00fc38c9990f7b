package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	role       TEXT NOT NULL,
	text       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_messages_user_created ON messages (user_id, created_at);
`

// PostgresTranscript — архив переписки, только дописывается
type PostgresTranscript struct {
	db *sql.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func NewPostgresTranscript(ctx context.Context, db *sql.DB) (*PostgresTranscript, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &PostgresTranscript{db: db}, nil
}

func (r *PostgresTranscript) SaveMessage(ctx context.Context, msg *dialog.Message) error {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, user_id, role, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		uuid.NewString(),
		msg.UserID,
		string(msg.Role),
		msg.Text,
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

func (r *PostgresTranscript) History(ctx context.Context, userID string, limit int) ([]dialog.Message, error) {
	if limit <= 0 {
		limit = dialog.HistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, role, text, created_at FROM (
			SELECT user_id, role, text, created_at
			FROM messages
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []dialog.Message
	for rows.Next() {
		var m dialog.Message
		var role string
		if err := rows.Scan(&m.UserID, &role, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = dialog.Role(role)
		out = append(out, m)
	}
	return out, rows.Err()
}
