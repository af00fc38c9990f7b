package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var policies = Fragment{
	ID:    "chunk:policies",
	Title: "Policies",
	Text:  "Refund processed within seven business days.",
}

func TestFilterGroundedKeepsSupportedCitedLine(t *testing.T) {
	answer := "Refunds are processed in 7 days. [chunk:policies]\nWe love our customers."
	res := FilterGrounded(answer, []Fragment{policies})

	assert.Equal(t, "Refunds are processed in 7 days. [chunk:policies]", res.Text)
	assert.Equal(t, []string{"chunk:policies"}, res.UsedIDs)
	assert.Equal(t, 1, res.Kept)
	assert.Equal(t, 1, res.Dropped)
}

func TestFilterGroundedDropsLines(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"no citation", "Refund processed within seven business days."},
		{"citation not permitted", "Refund processed within seven business days. [chunk:pricing]"},
		{"one shared token", "Refund milega. [chunk:policies]"},
		{"shared token repeated", "Refund refund refund! [chunk:policies]"},
		{"marker words do not count", "Chunk policies details here. [chunk:policies]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := FilterGrounded(tc.answer, []Fragment{policies})
			assert.Empty(t, res.Text)
			assert.Empty(t, res.UsedIDs)
			assert.Equal(t, 1, res.Dropped)
		})
	}
}

func TestFilterGroundedAcceptsBareFragmentID(t *testing.T) {
	frag := Fragment{ID: "policies", Text: policies.Text}
	res := FilterGrounded("Seven business days lagte hain. [chunk:policies]", []Fragment{frag})
	assert.Equal(t, []string{"policies"}, res.UsedIDs)
	assert.NotEmpty(t, res.Text)
}

func TestFilterGroundedAnySupportingCitationKeepsLine(t *testing.T) {
	about := Fragment{ID: "chunk:about", Text: "We build websites and bots."}
	line := "Refund within seven days. [chunk:about] [chunk:policies]"
	res := FilterGrounded(line, []Fragment{about, policies})

	assert.Equal(t, line, res.Text)
	assert.Equal(t, []string{"chunk:policies"}, res.UsedIDs)
}

func TestFilterGroundedSkipsBlankLines(t *testing.T) {
	res := FilterGrounded("\n\n  \n", []Fragment{policies})
	assert.Empty(t, res.Text)
	assert.Zero(t, res.Dropped)
}

func TestStripCitations(t *testing.T) {
	in := "Refunds are processed in 7 days. [chunk:policies]\n  [chunk:about]  We  build bots.  "
	assert.Equal(t, "Refunds are processed in 7 days.\nWe build bots.", StripCitations(in))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"refund", "processed", "days"}, tokenize("Refund, is processed: 7 days!"))
}
