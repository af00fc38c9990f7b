package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/sales-bot/internal/ai"
)

// AIGenerator — Generator поверх ai.AI: контекст уходит отдельным system сообщением.
type AIGenerator struct {
	ai    ai.AI
	tools []ai.Tool
}

func NewAIGenerator(client ai.AI, tools ...ai.Tool) *AIGenerator {
	return &AIGenerator{ai: client, tools: tools}
}

func (g *AIGenerator) Generate(ctx context.Context, instructions, message string, gctx GenerateContext) (GenerateResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "user_id=%s\n", gctx.UserID)
	fmt.Fprintf(&b, "last_question=%s\n", orNone(gctx.LastQuestion))
	fmt.Fprintf(&b, "next_question_type=%s\n", orNone(string(gctx.NextQuestionType)))
	if gctx.Knowledge {
		fmt.Fprintf(&b, "RETRIEVED CONTEXT (%s):\n%s\n", strings.Join(gctx.FragmentIDs, ", "), gctx.RetrievedContext)
	}

	raw, err := g.ai.GetReply(ctx, ai.Request{
		System: instructions,
		Messages: []ai.Message{
			{Role: "system", Text: b.String()},
			{Role: "user", Text: message},
		},
		Tools: g.tools,
	})
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{FinalOutput: raw}, nil
}
