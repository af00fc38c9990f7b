package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/sales-bot/internal/ai"
)

func toolByName(t *testing.T, tools []ai.Tool, name string) ai.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return ai.Tool{}
}

func TestCreateBookingNotifiesAdmin(t *testing.T) {
	n := &fakeNotifier{}
	tool := toolByName(t, Tools(n), "createBooking")

	out, err := tool.Execute(context.Background(), json.RawMessage(
		`{"name":"Ali","phone":"0300","date":"2026-10-20","time":"19:00","notes":""}`))
	require.NoError(t, err)
	assert.Equal(t, bookingNotedReply, out)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "Name: Ali")
	assert.Contains(t, n.sent[0], "Notes: N/A")
}

func TestNotifyAdminWithoutChannel(t *testing.T) {
	out, err := toolByName(t, Tools(nil), "notifyAdmin").Execute(context.Background(), json.RawMessage(`{"message":"call me"}`))
	require.NoError(t, err)
	assert.Equal(t, notConfiguredReply, out)

	n := &fakeNotifier{err: ErrNotifierNotConfigured}
	out, err = toolByName(t, Tools(n), "notifyAdmin").Execute(context.Background(), json.RawMessage(`{"message":"call me"}`))
	require.NoError(t, err)
	assert.Equal(t, notConfiguredReply, out)
}

func TestNotifyAdminFailureAndBadArgs(t *testing.T) {
	n := &fakeNotifier{err: errors.New("down")}
	_, err := toolByName(t, Tools(n), "notifyAdmin").Execute(context.Background(), json.RawMessage(`{"message":"x"}`))
	assert.Error(t, err)

	_, err = toolByName(t, Tools(&fakeNotifier{}), "createBooking").Execute(context.Background(), json.RawMessage(`{`))
	assert.Error(t, err)
}

func TestLeadSummary(t *testing.T) {
	st := NewState(time.Now())
	st.Topic = TopicWebsite
	st.Slots.SetIfEmpty(SlotBudget, Text("50k"))

	s := leadSummary("u1", st)
	assert.Contains(t, s, "User: u1")
	assert.Contains(t, s, "Topic: website")
	assert.Contains(t, s, `"budget":"50k"`)
}
