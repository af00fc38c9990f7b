package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/sales-bot/internal/ai"
)

type recordingAI struct {
	req ai.Request
	err error
}

func (r *recordingAI) GetReply(_ context.Context, req ai.Request) (string, error) {
	r.req = req
	return "jawab", r.err
}

func TestAIGeneratorKnowledgeContext(t *testing.T) {
	client := &recordingAI{}
	g := NewAIGenerator(client, Tools(nil)...)

	res, err := g.Generate(context.Background(), "INSTR", "pricing kya hai?", GenerateContext{
		UserID:           "u1",
		RetrievedContext: "[chunk:pricing] Pricing: basic site 50k",
		FragmentIDs:      []string{"chunk:pricing"},
		Knowledge:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "jawab", res.FinalOutput)
	assert.Equal(t, "INSTR", client.req.System)
	require.Len(t, client.req.Messages, 2)
	assert.Contains(t, client.req.Messages[0].Text, "RETRIEVED CONTEXT (chunk:pricing)")
	assert.Contains(t, client.req.Messages[0].Text, "last_question=none")
	assert.Equal(t, "pricing kya hai?", client.req.Messages[1].Text)
	assert.Len(t, client.req.Tools, 2)
}

func TestAIGeneratorFlowOmitsContext(t *testing.T) {
	client := &recordingAI{}
	_, err := NewAIGenerator(client).Generate(context.Background(), "I", "hi", GenerateContext{
		UserID:           "u1",
		NextQuestionType: QuestionBudget,
	})
	require.NoError(t, err)
	assert.NotContains(t, client.req.Messages[0].Text, "RETRIEVED CONTEXT")
	assert.Contains(t, client.req.Messages[0].Text, "next_question_type=budget")
}

func TestAIGeneratorError(t *testing.T) {
	_, err := NewAIGenerator(&recordingAI{err: errors.New("rate limited")}).Generate(context.Background(), "I", "hi", GenerateContext{})
	assert.Error(t, err)
}
