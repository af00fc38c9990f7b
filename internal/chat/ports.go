package chat

import (
	"context"

	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

const (
	TypeChat  = "chat"
	TypePTT   = "ptt"
	TypeAudio = "audio"
)

// TranscriptReader — чтение архива для выдачи истории
type TranscriptReader interface {
	History(ctx context.Context, userID string, limit int) ([]dialog.Message, error)
}

// RequestObserver — счётчик входящих по исходу
type RequestObserver interface {
	ObserveRequest(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string) {}
