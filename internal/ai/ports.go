package ai

import (
	"context"
	"encoding/json"
)

// AI — внешний интеллект, не знает ни про диалог, ни про слоты
type AI interface {
	GetReply(ctx context.Context, req Request) (string, error)
}

// Embedder — векторизация текста для поиска по базе знаний
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Message — универсальный формат диалога для AI
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}

// Tool — функция, которую модель может вызвать во время ответа
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema
	Execute     func(ctx context.Context, args json.RawMessage) (string, error)
}

type Request struct {
	System   string
	Messages []Message
	Tools    []Tool
}
