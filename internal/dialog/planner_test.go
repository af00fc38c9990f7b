package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextQuestionPriority(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		slots Slots
		want  QuestionType
	}{
		{"empty", StageDiscovery, Slots{}, QuestionBusinessType},
		{"need missing", StageRequirements, Slots{BusinessType: Text("restaurant")}, QuestionGoal},
		{
			"bot without channel", StageProposal,
			Slots{BusinessType: Text("restaurant"), PrimaryNeed: Text("whatsapp bot"), WantsWhatsappBot: Flag(true)},
			QuestionChannel,
		},
		{
			"requirements needs features", StageRequirements,
			Slots{BusinessType: Text("restaurant"), PrimaryNeed: Text("website")},
			QuestionFeatures,
		},
		{
			"proposal needs budget", StageProposal,
			Slots{BusinessType: Text("restaurant"), PrimaryNeed: Text("website")},
			QuestionBudget,
		},
		{
			"proposal needs timeline", StageProposal,
			Slots{BusinessType: Text("restaurant"), PrimaryNeed: Text("website"), Budget: Text("50k")},
			QuestionTimeline,
		},
		{
			"handoff", StageHandoff,
			Slots{BusinessType: Text("restaurant"), PrimaryNeed: Text("website"), Budget: Text("50k"), Timeline: Text("1 month")},
			QuestionNone,
		},
		{
			"discovery with answered basics", StageDiscovery,
			Slots{BusinessType: Text("restaurant"), PrimaryNeed: Text("website")},
			QuestionNone,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := &State{Stage: tc.stage, Slots: tc.slots}
			q := NextQuestion(st)
			assert.Equal(t, tc.want, q.Type)
			assert.Equal(t, tc.want == QuestionNone, q.Text == "")
		})
	}
}

func TestFillingSlotNeverResurfacesEarlierQuestion(t *testing.T) {
	st := &State{Stage: StageProposal}
	order := []SlotWrite{
		{SlotBusinessType, Text("restaurant")},
		{SlotPrimaryNeed, Text("website")},
		{SlotBudget, Text("50k")},
		{SlotTimeline, Text("2 weeks")},
	}
	rank := map[QuestionType]int{
		QuestionBusinessType: 1, QuestionGoal: 2, QuestionChannel: 3,
		QuestionFeatures: 4, QuestionBudget: 5, QuestionTimeline: 6, QuestionNone: 7,
	}

	prev := rank[NextQuestionType(st)]
	for _, w := range order {
		st.Slots.Apply([]SlotWrite{w})
		cur := rank[NextQuestionType(st)]
		require.GreaterOrEqual(t, cur, prev, "after %s", w.Name)
		prev = cur
	}
	assert.Equal(t, 7, prev)
}

func TestCanonicalQuestionsClassifyToThemselves(t *testing.T) {
	for qt, text := range questionTexts {
		assert.Equal(t, qt, ClassifyQuestion(text), text)
	}
}

func TestClassifyQuestion(t *testing.T) {
	assert.Equal(t, QuestionBusinessType, ClassifyQuestion("Aap ka business kya hai?"))
	assert.Equal(t, QuestionBusinessType, ClassifyQuestion("Aapko kis type ka solution chahiye?"), "kis type is checked before goal")
	assert.Equal(t, QuestionGoal, ClassifyQuestion("Aapka goal kya hai?"))
	assert.Equal(t, QuestionChannel, ClassifyQuestion("Kya orders aate hain WhatsApp par?"))
	assert.Equal(t, QuestionFeatures, ClassifyQuestion("Requirements share karein?"))
	assert.Equal(t, QuestionTimeline, ClassifyQuestion("Timeframe kya hai?"))
	assert.Equal(t, QuestionWebsiteType, ClassifyQuestion("Website type kaisi ho?"))
	assert.Equal(t, QuestionNone, ClassifyQuestion("Aur kuch?"))
	assert.Equal(t, QuestionNone, ClassifyQuestion(""))
}

func TestApplyAnswerGoalAcknowledgementUsesPriorQuestion(t *testing.T) {
	st := NewState(time.Now())
	ApplyAnswer(st, QuestionGoal, "yes", "Kya aap WhatsApp orders chahte hain?")
	assert.Equal(t, "whatsapp bot", st.Slots.PrimaryNeed.String())
	assert.True(t, st.Slots.WantsWhatsappBot.True())

	st = NewState(time.Now())
	ApplyAnswer(st, QuestionGoal, "haan", "Website banwani hai?")
	assert.Equal(t, "website", st.Slots.PrimaryNeed.String())
	assert.True(t, st.Slots.WantsWebsite.True())

	st = NewState(time.Now())
	ApplyAnswer(st, QuestionGoal, "ok", "Aur kuch?")
	assert.False(t, st.Slots.PrimaryNeed.Filled())
}

func TestApplyAnswerGoalFreeText(t *testing.T) {
	st := NewState(time.Now())
	ApplyAnswer(st, QuestionGoal, "booking aur web dono", "Main goal kya hai?")
	assert.Equal(t, "booking aur web dono", st.Slots.PrimaryNeed.String())
	assert.True(t, st.Slots.WantsWebsite.True())
	assert.True(t, st.Slots.BookingSystem.True())
}

func TestApplyAnswerWriteOnce(t *testing.T) {
	st := NewState(time.Now())
	st.Slots.Budget = Text("50k")
	ApplyAnswer(st, QuestionBudget, "1 lakh", "")
	assert.Equal(t, "50k", st.Slots.Budget.String())

	ApplyAnswer(st, QuestionBusinessType, "  bakery ", "")
	assert.Equal(t, "bakery", st.Slots.BusinessType.String())
}

func TestApplyAnswerChannel(t *testing.T) {
	st := NewState(time.Now())
	ApplyAnswer(st, QuestionChannel, "nahi", "")
	assert.True(t, st.Slots.OrderingSystem.Filled())
	assert.False(t, st.Slots.OrderingSystem.True())

	st = NewState(time.Now())
	ApplyAnswer(st, QuestionChannel, "zyada tar whatsapp pe", "")
	assert.True(t, st.Slots.OrderingSystem.True())

	st = NewState(time.Now())
	ApplyAnswer(st, QuestionChannel, "pata nahi", "")
	assert.False(t, st.Slots.OrderingSystem.Filled())
}

func TestAdvanceStage(t *testing.T) {
	st := NewState(time.Now())
	AdvanceStage(st)
	assert.Equal(t, StageDiscovery, st.Stage)

	st.Slots.BusinessType = Text("restaurant")
	AdvanceStage(st)
	assert.Equal(t, StageRequirements, st.Stage)

	st.Slots.PrimaryNeed = Text("website")
	AdvanceStage(st)
	assert.Equal(t, StageProposal, st.Stage)

	st = NewState(time.Now())
	st.Slots.Budget = Text("50k")
	st.Slots.Timeline = Text("2 weeks")
	AdvanceStage(st)
	assert.Equal(t, StageHandoff, st.Stage, "handoff regardless of current stage")

	AdvanceStage(st)
	assert.Equal(t, StageHandoff, st.Stage)
}
