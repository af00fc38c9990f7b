package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

func TestPostgresTranscript(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tr, err := NewPostgresTranscript(ctx, db)
	require.NoError(t, err)

	user := "test-" + uuid.NewString()
	base := time.Now().Add(-time.Minute)
	for i, text := range []string{"restaurant", "Main goal kya hai?", "website"} {
		role := dialog.RoleUser
		if i%2 == 1 {
			role = dialog.RoleBot
		}
		require.NoError(t, tr.SaveMessage(ctx, &dialog.Message{
			UserID:    user,
			Role:      role,
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := tr.History(ctx, user, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Main goal kya hai?", msgs[0].Text)
	assert.Equal(t, dialog.RoleBot, msgs[0].Role)
	assert.Equal(t, "website", msgs[1].Text)
}
