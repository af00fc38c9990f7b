package dialog

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	clarifyReply     = "Maaf kijiye, yeh clear nahi hua. Aap kis cheez ke bare mein baat kar rahe hain?"
	noKnowledgeReply = "Is info ke liye thori clarity chahiye hogi. Aap kis policy ya company detail ke bare mein pooch rahe hain?"
	nextStepReply    = "Samajh gaya. Aapka next step kya hona chahiye?"

	// ApologyReply — транспорт подставляет при ошибке коллабораторов
	ApologyReply = "Sorry, something went wrong. Please try again."
	// VoiceNotice — ответ на голосовое сообщение
	VoiceNotice = "Voice message receive ho gaya hai, please apna message text mein likh dein taake main theek se help kar sakun."
	// UnsupportedNotice — ответ на медиа и прочий не-текст
	UnsupportedNotice = "Maaf kijiye, main abhi sirf text messages samajh sakta hun. Please apna sawal text mein likh dein."
)

const basePrompt = `You are a human customer service rep for an IT consulting company.
You provide software, websites, WhatsApp bots, and automation solutions.
Be calm, helpful, and direct; never pushy.
Language must be Roman Urdu with light English only.
Default reply is 1-2 short lines. Longer only if truly needed.
Ask only one focused question at a time.
Never repeat a question if its answer is already in slots.
Use lastQuestionType to interpret short replies.
Acknowledge topic shifts in one line, then continue.
Use RAG only for explicit policies/company-info questions, never inside sales flow.
Never mention chunks, sources, tools, or internal state.
Always respond with plain text.
Before proceeding with the booking, ensure the user has shared their name, phone number, timeline, and budget.
If any of these details are missing, do not confirm the booking and ask them to contact the admin directly at +92 315 0262140.`

const knowledgePrompt = `
Answer ONLY from RETRIEVED CONTEXT.
Put every fact on its own line and end that line with the id of the fragment it came from, e.g. [chunk:policies].
Lines without such an id are discarded.`

func buildInstructions(st *State, history string, knowledge bool) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	if knowledge {
		b.WriteString("\n")
		b.WriteString(knowledgePrompt)
	}
	fmt.Fprintf(&b, "\n\nSTATE: %s\n", stateSummary(st))
	fmt.Fprintf(&b, "HISTORY (last %d):\n%s", HistoryLimit, history)
	return b.String()
}

func stateSummary(st *State) string {
	slots, _ := json.Marshal(st.Slots)
	return strings.Join([]string{
		"topic=" + orNone(string(st.Topic)),
		"stage=" + string(st.Stage),
		"lastQuestionType=" + orNone(string(st.LastQuestionType)),
		"slots=" + string(slots),
	}, " | ")
}

func formatHistory(history []Turn) string {
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	lines := make([]string, 0, len(history))
	for _, h := range history {
		who := "Bot"
		if h.Role == RoleUser {
			who = "User"
		}
		lines = append(lines, who+": "+h.Text)
	}
	return strings.Join(lines, "\n")
}

// FormatRetrievedContext — одна строка на фрагмент: [id] title: text
func FormatRetrievedContext(chunks []Fragment) string {
	lines := make([]string, 0, len(chunks))
	for _, c := range chunks {
		title := ""
		if c.Title != "" {
			title = c.Title + ": "
		}
		lines = append(lines, "["+c.ID+"] "+title+c.Text)
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
