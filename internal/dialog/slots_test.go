package dialog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotUnion(t *testing.T) {
	assert.False(t, Unset().Filled())
	assert.False(t, Text("   ").Filled(), "blank text stays unset")
	assert.True(t, Text("restaurant").Filled())
	assert.True(t, Flag(false).Filled(), "explicit no counts as answered")
	assert.False(t, Flag(false).True())
	assert.True(t, Flag(true).True())
	assert.Equal(t, "restaurant", Text(" restaurant ").String())
}

func TestSlotsJSONKeepsTags(t *testing.T) {
	in := Slots{
		BusinessType:   Text("restaurant"),
		OrderingSystem: Flag(false),
		WantsWebsite:   Flag(true),
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"businessType":"restaurant"`)
	assert.Contains(t, string(raw), `"orderingSystem":false`)
	assert.Contains(t, string(raw), `"budget":null`)

	var out Slots
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	var bad Slot
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &bad))
}

func TestSlotsApplyIsWriteOnce(t *testing.T) {
	var s Slots
	s.Apply([]SlotWrite{
		{SlotBudget, Text("50k")},
		{SlotWantsWebsite, Flag(true)},
	})
	s.Apply([]SlotWrite{
		{SlotBudget, Text("discussed")},
		{SlotWantsWebsite, Flag(false)},
	})

	assert.Equal(t, "50k", s.Budget.String())
	assert.True(t, s.WantsWebsite.True(), "flags are never lowered passively")
}

func TestSlotsRaiseUpgradesExplicitNo(t *testing.T) {
	var s Slots
	require.True(t, s.SetIfEmpty(SlotOrderingSystem, Flag(false)))
	s.Raise(SlotOrderingSystem)
	assert.True(t, s.OrderingSystem.True())
}

func TestFilledNames(t *testing.T) {
	s := Slots{BusinessType: Text("restaurant"), OrderingSystem: Flag(false), WantsWhatsappBot: Flag(true)}
	assert.Equal(t, []string{"businessType", "wantsWhatsappBot"}, s.FilledNames())
}
