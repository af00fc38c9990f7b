package dialog

import "strings"

type QuestionType string

const (
	QuestionNone         QuestionType = ""
	QuestionBusinessType QuestionType = "businessType"
	QuestionGoal         QuestionType = "goal"
	QuestionChannel      QuestionType = "channel"
	QuestionFeatures     QuestionType = "features"
	QuestionBudget       QuestionType = "budget"
	QuestionTimeline     QuestionType = "timeline"
	QuestionWebsiteType  QuestionType = "websiteType"
)

type Question struct {
	Type QuestionType
	Text string
}

var questionTexts = map[QuestionType]string{
	QuestionBusinessType: "Aapka business kis type ka hai?",
	QuestionGoal:         "Main goal kya hai? Website, WhatsApp orders, ya automation?",
	QuestionChannel:      "Orders zyada WhatsApp par aate hain?",
	QuestionFeatures:     "Kaun se features chahiye? Orders, menu, booking, ya support?",
	QuestionBudget:       "Budget range kya socha hai?",
	QuestionTimeline:     "Timeline kya chahiye?",
}

// NextQuestionType — первый незакрытый обязательный вопрос по фиксированному приоритету.
func NextQuestionType(st *State) QuestionType {
	sl := st.Slots
	switch {
	case !sl.BusinessType.Filled():
		return QuestionBusinessType
	case !sl.PrimaryNeed.Filled():
		return QuestionGoal
	case sl.WantsWhatsappBot.True() && !sl.OrderingSystem.Filled():
		return QuestionChannel
	case st.Stage == StageRequirements && !sl.Features.Filled():
		return QuestionFeatures
	case st.Stage == StageProposal && !sl.Budget.Filled():
		return QuestionBudget
	case st.Stage == StageProposal && !sl.Timeline.Filled():
		return QuestionTimeline
	}
	return QuestionNone
}

func NextQuestion(st *State) Question {
	qt := NextQuestionType(st)
	return Question{Type: qt, Text: questionTexts[qt]}
}

// ClassifyQuestion определяет, какой слот закрывает произвольный вопрос.
func ClassifyQuestion(question string) QuestionType {
	q := strings.ToLower(question)
	switch {
	case q == "":
		return QuestionNone
	case containsAny(q, "business", "kis type"):
		return QuestionBusinessType
	case containsAny(q, "goal", "kis type ka solution"):
		return QuestionGoal
	case containsAny(q, "whatsapp par orders", "orders aate", "whatsapp par aate"):
		return QuestionChannel
	case containsAny(q, "features", "requirements"):
		return QuestionFeatures
	case strings.Contains(q, "budget"):
		return QuestionBudget
	case containsAny(q, "timeline", "timeframe"):
		return QuestionTimeline
	case containsAny(q, "website kis type", "website type"):
		return QuestionWebsiteType
	}
	return QuestionNone
}

// IsAnswered — закрыт ли уже слот, на который нацелен вопрос.
func IsAnswered(st *State, qt QuestionType) bool {
	sl := st.Slots
	switch qt {
	case QuestionBusinessType:
		return sl.BusinessType.Filled()
	case QuestionGoal, QuestionWebsiteType:
		return sl.PrimaryNeed.Filled()
	case QuestionChannel:
		return sl.OrderingSystem.Filled()
	case QuestionFeatures:
		return sl.Features.Filled()
	case QuestionBudget:
		return sl.Budget.Filled()
	case QuestionTimeline:
		return sl.Timeline.Filled()
	}
	return false
}

// ApplyAnswer записывает ответ пользователя на ожидающий вопрос.
func ApplyAnswer(st *State, qt QuestionType, answer, priorQuestion string) {
	text := strings.TrimSpace(answer)
	lower := strings.ToLower(text)
	sl := &st.Slots

	switch qt {
	case QuestionBusinessType:
		sl.SetIfEmpty(SlotBusinessType, Text(text))

	case QuestionGoal:
		if sl.PrimaryNeed.Filled() {
			return
		}
		if affirmatives[lower] {
			// "да" на вопрос с вариантами: цель берем из самого вопроса
			prior := strings.ToLower(priorQuestion)
			switch {
			case strings.Contains(prior, "whatsapp"):
				sl.SetIfEmpty(SlotPrimaryNeed, Text("whatsapp bot"))
				sl.Raise(SlotWantsWhatsappBot)
			case strings.Contains(prior, "website"):
				sl.SetIfEmpty(SlotPrimaryNeed, Text("website"))
				sl.Raise(SlotWantsWebsite)
			}
			return
		}
		sl.SetIfEmpty(SlotPrimaryNeed, Text(text))
		if strings.Contains(lower, "web") {
			sl.Raise(SlotWantsWebsite)
		}
		if strings.Contains(lower, "whatsapp") {
			sl.Raise(SlotWantsWhatsappBot)
		}
		if strings.Contains(lower, "ordering") {
			sl.Raise(SlotOrderingSystem)
		}
		if strings.Contains(lower, "booking") {
			sl.Raise(SlotBookingSystem)
		}

	case QuestionChannel:
		switch {
		case affirmatives[lower] || strings.Contains(lower, "whatsapp"):
			sl.Raise(SlotOrderingSystem)
		case negatives[lower]:
			sl.SetIfEmpty(SlotOrderingSystem, Flag(false))
		}

	case QuestionFeatures:
		sl.SetIfEmpty(SlotFeatures, Text(text))

	case QuestionBudget:
		sl.SetIfEmpty(SlotBudget, Text(text))

	case QuestionTimeline:
		sl.SetIfEmpty(SlotTimeline, Text(text))

	case QuestionWebsiteType:
		if sl.SetIfEmpty(SlotPrimaryNeed, Text(text)) {
			sl.Raise(SlotWantsWebsite)
		}
	}
}

// AdvanceStage двигает стадию вперед по заполненным слотам.
func AdvanceStage(st *State) {
	sl := st.Slots
	if sl.BusinessType.Filled() && st.Stage == StageDiscovery {
		st.Stage = StageRequirements
	}
	if sl.PrimaryNeed.Filled() && st.Stage == StageRequirements {
		st.Stage = StageProposal
	}
	if sl.Budget.Filled() && sl.Timeline.Filled() {
		st.Stage = StageHandoff
	}
}
