package dialog

import "strings"

type TopicShift struct {
	Shifted bool
	Topic   Topic
	Note    string
}

var topicNotes = map[Topic]string{
	TopicWebsite:        "Theek hai, ab website wali requirement par chalte hain.",
	TopicWhatsappOrders: "Samajh gaya, WhatsApp orders wali requirement par aate hain.",
	TopicAutomation:     "Theek hai, automation wali baat dekhte hain.",
}

func InferTopic(text string) Topic {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "website", "web", "ecommerce", "e-commerce"):
		return TopicWebsite
	case strings.Contains(t, "whatsapp") && strings.Contains(t, "order"):
		return TopicWhatsappOrders
	case strings.Contains(t, "automation"):
		return TopicAutomation
	}
	return TopicNone
}

// DetectTopicShift: пустой вывод никогда не затирает текущую тему.
func DetectTopicShift(current Topic, text string) TopicShift {
	topic := InferTopic(text)
	if topic == TopicNone || topic == current {
		return TopicShift{Topic: current}
	}
	return TopicShift{Shifted: true, Topic: topic, Note: topicNotes[topic]}
}

// ApplyTopicShift переключает тему и перезапускает воронку с requirements.
func ApplyTopicShift(st *State, topic Topic) {
	st.Topic = topic
	st.Stage = StageRequirements

	switch topic {
	case TopicWebsite:
		st.Slots.Raise(SlotWantsWebsite)
		st.Slots.SetIfEmpty(SlotPrimaryNeed, Text("website"))
	case TopicWhatsappOrders:
		st.Slots.Raise(SlotWantsWhatsappBot)
		st.Slots.SetIfEmpty(SlotPrimaryNeed, Text("whatsapp orders"))
	}
}
