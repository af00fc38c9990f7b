package dialog

import "strings"

// Signals — результат лексической классификации входящего сообщения.
type Signals struct {
	ShortAck  bool
	Knowledge bool
	Unclear   bool
}

// Classifier — подменяемый NLU слой; по умолчанию ключевые слова.
type Classifier interface {
	Classify(text string) Signals
	ExtractSlots(text string) []SlotWrite
}

type KeywordClassifier struct{}

func (KeywordClassifier) Classify(text string) Signals {
	return Signals{
		ShortAck:  IsShortAcknowledgement(text),
		Knowledge: IsExplicitKnowledgeQuery(text),
		Unclear:   IsUnclearUtterance(text),
	}
}

func (KeywordClassifier) ExtractSlots(text string) []SlotWrite {
	return ExtractSlotUpdates(text)
}

var shortAcks = set(
	"yes", "no", "han", "haan", "ok", "theek",
	"abhi bataya", "sub", "sub chahiye",
	"website", "restaurant", "ecommerce", "e-commerce",
)

var affirmatives = set("yes", "haan", "han", "ok", "theek")

var negatives = set("no", "nahi", "nahin")

var knowledgeSignals = []string{
	"refund",
	"policy",
	"policies",
	"terms",
	"hours",
	"timing",
	"timings",
	"company info",
	"about company",
	"about you",
	"pricing policy",
}

var unclearTokens = set("sono", "suno", "sunno")

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func IsShortAcknowledgement(text string) bool {
	return shortAcks[normalize(text)]
}

func IsExplicitKnowledgeQuery(text string) bool {
	return containsAny(strings.ToLower(text), knowledgeSignals...)
}

func IsUnclearUtterance(text string) bool {
	return unclearTokens[normalize(text)]
}

// ExtractSlotUpdates — пассивное извлечение слотов из текста.
// Для primaryNeed побеждает первая совпавшая категория.
func ExtractSlotUpdates(text string) []SlotWrite {
	t := strings.ToLower(text)
	var out []SlotWrite

	switch {
	case strings.Contains(t, "restaurant"):
		out = append(out, SlotWrite{SlotBusinessType, Text("restaurant")})
	case containsAny(t, "ecommerce", "e-commerce"):
		out = append(out, SlotWrite{SlotBusinessType, Text("ecommerce")})
	}

	var need string
	if strings.Contains(t, "web") {
		out = append(out, SlotWrite{SlotWantsWebsite, Flag(true)})
		need = firstNonEmpty(need, "website")
	}
	if containsAny(t, "whatsapp", "wa bot") {
		out = append(out, SlotWrite{SlotWantsWhatsappBot, Flag(true)})
		need = firstNonEmpty(need, "whatsapp bot")
	}
	if containsAny(t, "ordering system", "online order", "orders") {
		out = append(out, SlotWrite{SlotOrderingSystem, Flag(true)})
		need = firstNonEmpty(need, "ordering system")
	}
	if strings.Contains(t, "booking") {
		out = append(out, SlotWrite{SlotBookingSystem, Flag(true)})
		need = firstNonEmpty(need, "booking system")
	}
	if need != "" {
		out = append(out, SlotWrite{SlotPrimaryNeed, Text(need)})
	}

	if strings.Contains(t, "budget") {
		out = append(out, SlotWrite{SlotBudget, Text("discussed")})
	}
	if strings.Contains(t, "timeline") {
		out = append(out, SlotWrite{SlotTimeline, Text("discussed")})
	}
	return out
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
