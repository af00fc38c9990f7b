package dialog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	RouteKnowledge = "RAG_QUERY"
	RouteFlow      = "SALES_CONTINUE"
	RouteClarify   = "CLARIFY"
)

// Service — обработка одного хода диалога. Вызывающий обязан сериализовать ходы одного пользователя.
type Service interface {
	HandleMessage(ctx context.Context, userID, text string) (string, error)
}

type service struct {
	states     StateRepo
	retriever  Retriever
	generator  Generator
	classifier Classifier
	notifier   Notifier
	transcript Transcript
	metrics    Metrics
	log        *zap.Logger
	retrieval  RetrievalConfig
	now        func() time.Time
}

func NewService(states StateRepo, retriever Retriever, generator Generator, opts ...Option) Service {
	s := &service{
		states:     states,
		retriever:  retriever,
		generator:  generator,
		classifier: KeywordClassifier{},
		metrics:    nopMetrics{},
		log:        zap.NewNop(),
		retrieval: RetrievalConfig{
			TopK:      DefaultTopK,
			MinScore:  DefaultMinScore,
			MaxChunks: DefaultMaxChunks,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	st, err := s.states.Get(ctx, userID)
	if err != nil {
		s.metrics.ObserveCollaboratorError("state")
		return "", fmt.Errorf("load state: %w", err)
	}

	s.record(ctx, userID, st, RoleUser, text)

	// классификация до любых мутаций состояния
	hadPending := st.LastQuestionType != QuestionNone
	sig := s.classifier.Classify(text)

	shift := DetectTopicShift(st.Topic, text)
	if shift.Shifted {
		ApplyTopicShift(st, shift.Topic)
	}

	var forced string
	if sig.Unclear && !st.PendingClarification {
		forced = clarifyReply
		st.PendingClarification = true
	} else {
		st.PendingClarification = false
	}

	if !sig.Unclear && st.LastQuestionType != QuestionNone {
		ApplyAnswer(st, st.LastQuestionType, text, st.LastQuestion)
		st.LastQuestionType = QuestionNone
	}

	st.Slots.Apply(s.classifier.ExtractSlots(text))
	prevStage := st.Stage
	AdvanceStage(st)
	if prevStage != StageHandoff && st.Stage == StageHandoff {
		s.escalate(ctx, userID, st)
	}

	route := RouteFlow
	switch {
	case forced != "":
		route = RouteClarify
	case sig.Knowledge && !sig.ShortAck && !hadPending:
		route = RouteKnowledge
	}

	s.log.Info("router",
		zap.String("user", userID),
		zap.String("topic", orNone(string(st.Topic))),
		zap.String("stage", string(st.Stage)),
		zap.String("lastQuestionType", orNone(string(st.LastQuestionType))),
		zap.Strings("slotsFilled", st.Slots.FilledNames()),
		zap.String("decision", route),
	)
	s.metrics.ObserveTurn(route)

	var reply string
	switch route {
	case RouteClarify:
		reply = forced
		if shift.Shifted && shift.Note != "" {
			reply = shift.Note + "\n" + forced
		}
	case RouteKnowledge:
		reply, err = s.knowledgeTurn(ctx, userID, st, text, shift)
	default:
		reply, err = s.flowTurn(ctx, userID, st, text, shift)
	}
	if err != nil {
		if perr := s.states.Put(ctx, userID, st); perr != nil {
			s.log.Warn("save state failed", zap.String("user", userID), zap.Error(perr))
		}
		return "", err
	}

	s.record(ctx, userID, st, RoleBot, reply)
	st.AskedQuestion(LastQuestionLine(reply))

	if err := s.states.Put(ctx, userID, st); err != nil {
		s.metrics.ObserveCollaboratorError("state")
		return "", fmt.Errorf("save state: %w", err)
	}
	return reply, nil
}

func (s *service) knowledgeTurn(ctx context.Context, userID string, st *State, text string, shift TopicShift) (string, error) {
	res, err := s.retriever.Retrieve(ctx, text, RetrieveOptions{
		TopK:     s.retrieval.TopK,
		MinScore: s.retrieval.MinScore,
	})
	if err != nil {
		s.metrics.ObserveCollaboratorError("retrieval")
		return "", fmt.Errorf("retrieve knowledge: %w", err)
	}

	best := res.BestScore()
	chosen := res.Chunks
	if len(chosen) > s.retrieval.MaxChunks {
		chosen = chosen[:s.retrieval.MaxChunks]
	}
	pass := len(chosen) > 0 && best >= s.retrieval.MinScore

	s.log.Info("rag",
		zap.String("query", res.Query),
		zap.Any("topK", scoredIDs(res.Scored)),
		zap.Strings("chosen", fragmentIDs(chosen)),
		zap.Float64("minScore", s.retrieval.MinScore),
		zap.Float64("bestScore", best),
		zap.Bool("pass", pass),
	)
	s.metrics.ObserveRetrieval(best, pass)

	if !pass {
		return noKnowledgeReply, nil
	}

	gctx := s.generateContext(userID, st)
	gctx.Knowledge = true
	gctx.RetrievedContext = FormatRetrievedContext(chosen)
	gctx.FragmentIDs = fragmentIDs(chosen)

	out, err := s.generator.Generate(ctx, buildInstructions(st, gctx.History, true), text, gctx)
	if err != nil {
		s.metrics.ObserveCollaboratorError("generation")
		return "", fmt.Errorf("generate reply: %w", err)
	}

	composed := composeReply(st, composeInput{
		Candidate: out.FinalOutput,
		Knowledge: true,
		Permitted: chosen,
		Shift:     shift,
	})
	s.metrics.ObserveGrounding(composed.Grounding.Kept, composed.Grounding.Dropped)
	s.log.Debug("grounding",
		zap.Strings("used", composed.Grounding.UsedIDs),
		zap.Int("kept", composed.Grounding.Kept),
		zap.Int("dropped", composed.Grounding.Dropped),
	)
	return composed.Text, nil
}

func (s *service) flowTurn(ctx context.Context, userID string, st *State, text string, shift TopicShift) (string, error) {
	gctx := s.generateContext(userID, st)

	out, err := s.generator.Generate(ctx, buildInstructions(st, gctx.History, false), text, gctx)
	if err != nil {
		s.metrics.ObserveCollaboratorError("generation")
		return "", fmt.Errorf("generate reply: %w", err)
	}

	return composeReply(st, composeInput{
		Candidate: out.FinalOutput,
		Shift:     shift,
	}).Text, nil
}

func (s *service) generateContext(userID string, st *State) GenerateContext {
	return GenerateContext{
		UserID:           userID,
		History:          formatHistory(st.History),
		Topic:            st.Topic,
		Stage:            st.Stage,
		Slots:            st.Slots,
		LastQuestion:     st.LastQuestion,
		NextQuestionType: NextQuestionType(st),
	}
}

func (s *service) record(ctx context.Context, userID string, st *State, role Role, text string) {
	now := s.now()
	st.Record(role, text, now)

	if s.transcript == nil {
		return
	}
	err := s.transcript.SaveMessage(ctx, &Message{
		UserID:    userID,
		Role:      role,
		Text:      text,
		CreatedAt: now,
	})
	if err != nil {
		s.metrics.ObserveCollaboratorError("transcript")
		s.log.Warn("transcript save failed", zap.String("user", userID), zap.Error(err))
	}
}

// escalate — fire-and-forget: результат на ответ пользователю не влияет
func (s *service) escalate(ctx context.Context, userID string, st *State) {
	if st.HandoffNotified {
		return
	}
	res, err := notify(ctx, s.notifier, leadSummary(userID, st))
	if err != nil {
		s.metrics.ObserveCollaboratorError("notifier")
		s.log.Warn("handoff notify failed", zap.String("user", userID), zap.Error(err))
		return
	}
	st.HandoffNotified = true
	s.log.Info("handoff", zap.String("user", userID), zap.String("result", res))
}

func fragmentIDs(fs []Fragment) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.ID)
	}
	return out
}

type scoredID struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

func scoredIDs(fs []Fragment) []scoredID {
	out := make([]scoredID, 0, len(fs))
	for _, f := range fs {
		out = append(out, scoredID{ID: f.ID, Score: f.Score})
	}
	return out
}
