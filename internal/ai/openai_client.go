package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultChatModel      = "gpt-4.1-mini"
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)

	// после стольких раундов tool calls модель обязана ответить текстом
	maxToolRounds = 4
)

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
}

type OpenAIClient struct {
	client         *openai.Client
	model          string
	embeddingModel openai.EmbeddingModel
	log            *zap.Logger
}

func NewOpenAIClient(cfg OpenAIConfig, log *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(oc),
		model:          cfg.Model,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		log:            log.Named("ai"),
	}, nil
}

func (c *OpenAIClient) GetReply(ctx context.Context, req Request) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}

	tools := make([]openai.Tool, 0, len(req.Tools))
	byName := make(map[string]Tool, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
		byName[t.Name] = t
	}

	for round := 0; ; round++ {
		creq := openai.ChatCompletionRequest{
			Model:    c.model,
			Messages: msgs,
		}
		if len(tools) > 0 && round < maxToolRounds {
			creq.Tools = tools
		}

		resp, err := c.client.CreateChatCompletion(ctx, creq)
		if err != nil {
			c.log.Error("openai error", zap.Error(err))
			return "", fmt.Errorf("chat completion: %w", err)
		}

		if len(resp.Choices) == 0 {
			c.log.Warn("empty choices")
			return "", nil
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			c.log.Debug("raw gpt response", zap.String("content", msg.Content))
			return msg.Content, nil
		}

		msgs = append(msgs, msg)
		for _, call := range msg.ToolCalls {
			out := c.runTool(ctx, byName, call)
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    out,
				ToolCallID: call.ID,
			})
		}
	}
}

// результат инструмента всегда уходит модели, ошибка превращается в текст
func (c *OpenAIClient) runTool(ctx context.Context, tools map[string]Tool, call openai.ToolCall) string {
	t, ok := tools[call.Function.Name]
	if !ok || t.Execute == nil {
		c.log.Warn("unknown tool", zap.String("tool", call.Function.Name))
		return "Unknown tool."
	}

	out, err := t.Execute(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		c.log.Warn("tool failed", zap.String("tool", t.Name), zap.Error(err))
		return "Tool failed: " + err.Error()
	}
	c.log.Info("tool call", zap.String("tool", t.Name))
	return out
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("create embeddings: empty data")
	}
	return resp.Data[0].Embedding, nil
}
