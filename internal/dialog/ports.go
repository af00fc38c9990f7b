package dialog

import (
	"context"
	"errors"
	"time"
)

// Fragment — единица базы знаний, ядро ее только фильтрует и цитирует
type Fragment struct {
	ID    string
	Title string
	Text  string
	Score float64
}

type RetrieveOptions struct {
	TopK     int
	MinScore float64
}

type RetrieveResult struct {
	Query  string
	Chunks []Fragment // уже отфильтрованы по MinScore
	Scored []Fragment // полный ранжированный список до фильтра
}

func (r RetrieveResult) BestScore() float64 {
	if len(r.Scored) == 0 {
		return 0
	}
	return r.Scored[0].Score
}

// Retriever — поиск по базе знаний
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) (RetrieveResult, error)
}

// GenerateContext — справочная информация для генератора, ни к чему его не обязывает
type GenerateContext struct {
	UserID           string
	RetrievedContext string
	FragmentIDs      []string
	History          string
	Topic            Topic
	Stage            Stage
	Slots            Slots
	LastQuestion     string
	NextQuestionType QuestionType
	Knowledge        bool
}

type GenerateResult struct {
	FinalOutput string
}

// Generator — prompt + context -> text
type Generator interface {
	Generate(ctx context.Context, instructions, message string, gctx GenerateContext) (GenerateResult, error)
}

// StateRepo — хранилище состояний по userID, состояние создается при первом обращении
type StateRepo interface {
	Get(ctx context.Context, userID string) (*State, error)
	Put(ctx context.Context, userID string, st *State) error
}

var ErrNotifierNotConfigured = errors.New("notifier is not configured")

// Notifier — канал эскалации на человека
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Message — строка переписки для архива
type Message struct {
	UserID    string
	Role      Role
	Text      string
	CreatedAt time.Time
}

// Transcript — архив переписки, состояние из него не восстанавливается
type Transcript interface {
	SaveMessage(ctx context.Context, msg *Message) error
}

// Metrics — наблюдаемость ядра
type Metrics interface {
	ObserveTurn(route string)
	ObserveRetrieval(bestScore float64, pass bool)
	ObserveGrounding(kept, dropped int)
	ObserveCollaboratorError(collaborator string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveTurn(string) {}
func (nopMetrics) ObserveRetrieval(float64, bool) {}
func (nopMetrics) ObserveGrounding(int, int) {}
func (nopMetrics) ObserveCollaboratorError(string) {}
