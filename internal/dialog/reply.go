package dialog

import "strings"

type composeInput struct {
	Candidate string
	Knowledge bool
	Permitted []Fragment
	Shift     TopicShift
}

type composeOutput struct {
	Text      string
	Grounding GroundingResult
}

// composeReply собирает итоговое сообщение: grounding, защита от повторных вопросов,
// следующий открытый вопрос, заметка о смене темы, запасной текст.
func composeReply(st *State, in composeInput) composeOutput {
	var out composeOutput
	text := strings.TrimSpace(in.Candidate)

	if in.Knowledge {
		out.Grounding = FilterGrounded(text, in.Permitted)
		text = StripCitations(out.Grounding.Text)
		if text == "" {
			text = noKnowledgeReply
		}
	} else {
		text = StripCitations(text)
	}

	text = guardQuestions(st, text)
	if text == "" {
		text = NextQuestion(st).Text
	}
	if text == "" {
		text = nextStepReply
	}
	if in.Shift.Shifted && in.Shift.Note != "" {
		text = in.Shift.Note + "\n" + text
	}

	out.Text = text
	return out
}

// guardQuestions: не больше одного вопроса, уже закрытый слот не спрашиваем повторно,
// при открытом слоте вопрос обязательно есть.
func guardQuestions(st *State, text string) string {
	lines := splitLines(text)

	qi := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if isQuestionLine(lines[i]) {
			qi = i
			break
		}
	}

	if qi >= 0 {
		// лишние вопросы выше последнего выкидываем
		last := qi
		kept := make([]string, 0, len(lines))
		for i, l := range lines {
			if i != last && isQuestionLine(l) {
				continue
			}
			if i == last {
				qi = len(kept)
			}
			kept = append(kept, l)
		}
		lines = kept

		if qt := ClassifyQuestion(lines[qi]); qt != QuestionNone && IsAnswered(st, qt) {
			if next := NextQuestion(st); next.Text != "" {
				lines[qi] = next.Text
			} else {
				lines = append(lines[:qi], lines[qi+1:]...)
				qi = -1
			}
		}
	}

	if qi < 0 {
		if next := NextQuestion(st); next.Text != "" {
			lines = append(lines, next.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// LastQuestionLine — последняя строка, заканчивающаяся вопросительным знаком.
func LastQuestionLine(reply string) string {
	lines := splitLines(reply)
	for i := len(lines) - 1; i >= 0; i-- {
		if isQuestionLine(lines[i]) {
			return lines[i]
		}
	}
	return ""
}

func isQuestionLine(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), "?")
}
