package dialog

import "time"

const HistoryLimit = 15

type Stage string

const (
	StageDiscovery    Stage = "discovery"
	StageRequirements Stage = "requirements"
	StageProposal     Stage = "proposal"
	StageHandoff      Stage = "handoff"
)

type Topic string

const (
	TopicNone           Topic = ""
	TopicWebsite        Topic = "website"
	TopicWhatsappOrders Topic = "restaurant_whatsapp_orders"
	TopicAutomation     Topic = "automation"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"ts"`
}

// State — состояние разговора одного пользователя
type State struct {
	Topic                Topic        `json:"topic"`
	Stage                Stage        `json:"stage"`
	Slots                Slots        `json:"slots"`
	LastQuestion         string       `json:"lastQuestion"`
	LastQuestionType     QuestionType `json:"lastQuestionType"`
	PendingClarification bool         `json:"pendingClarification"`
	HandoffNotified      bool         `json:"handoffNotified"`
	History              []Turn       `json:"history"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

func NewState(now time.Time) *State {
	return &State{
		Stage:     StageDiscovery,
		History:   make([]Turn, 0, HistoryLimit),
		UpdatedAt: now,
	}
}

// Record добавляет реплику в историю, старые вытесняются (FIFO).
func (s *State) Record(role Role, text string, now time.Time) {
	s.History = append(s.History, Turn{Role: role, Text: text, At: now})
	if n := len(s.History); n > HistoryLimit {
		kept := make([]Turn, HistoryLimit)
		copy(kept, s.History[n-HistoryLimit:])
		s.History = kept
	}
	s.UpdatedAt = now
}

// AskedQuestion запоминает вопрос, заданный в исходящей реплике.
func (s *State) AskedQuestion(line string) {
	s.LastQuestion = line
	s.LastQuestionType = ClassifyQuestion(line)
}
