package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferTopicPrecedence(t *testing.T) {
	assert.Equal(t, TopicWebsite, InferTopic("website aur whatsapp orders dono"))
	assert.Equal(t, TopicWhatsappOrders, InferTopic("WhatsApp par order lena hai"))
	assert.Equal(t, TopicNone, InferTopic("whatsapp chahiye"), "whatsapp alone is not the ordering topic")
	assert.Equal(t, TopicAutomation, InferTopic("automation karni hai"))
	assert.Equal(t, TopicNone, InferTopic("restaurant"))
}

func TestDetectTopicShift(t *testing.T) {
	sh := DetectTopicShift(TopicNone, "ecommerce store chahiye")
	assert.True(t, sh.Shifted)
	assert.Equal(t, TopicWebsite, sh.Topic)
	assert.Equal(t, topicNotes[TopicWebsite], sh.Note)

	sh = DetectTopicShift(TopicWebsite, "website ki baat")
	assert.False(t, sh.Shifted)

	sh = DetectTopicShift(TopicAutomation, "budget kitna")
	assert.False(t, sh.Shifted)
	assert.Equal(t, TopicAutomation, sh.Topic, "empty inference keeps current topic")
}

func TestApplyTopicShiftResetsStageAndPrefills(t *testing.T) {
	st := NewState(time.Now())
	st.Stage = StageProposal
	ApplyTopicShift(st, TopicWhatsappOrders)

	assert.Equal(t, TopicWhatsappOrders, st.Topic)
	assert.Equal(t, StageRequirements, st.Stage)
	assert.Equal(t, "whatsapp orders", st.Slots.PrimaryNeed.String())
	assert.True(t, st.Slots.WantsWhatsappBot.True())
}

func TestApplyTopicShiftKeepsUserNeed(t *testing.T) {
	st := NewState(time.Now())
	st.Slots.PrimaryNeed = Text("booking system")
	ApplyTopicShift(st, TopicWebsite)

	assert.Equal(t, "booking system", st.Slots.PrimaryNeed.String())
	assert.True(t, st.Slots.WantsWebsite.True())
}

func TestApplyTopicShiftAutomationHasNoPrefill(t *testing.T) {
	st := NewState(time.Now())
	ApplyTopicShift(st, TopicAutomation)
	assert.False(t, st.Slots.PrimaryNeed.Filled())
	assert.Equal(t, StageRequirements, st.Stage)
}
