package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Vovarama1992/sales-bot/internal/ai"
)

const (
	notifiedReply      = "Admin has been notified."
	notConfiguredReply = "Admin notification is not configured."
	bookingNotedReply  = "Your booking request is noted. Our team will confirm shortly."
)

type bookingArgs struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// Tools — инструменты генератора для эскалации на человека.
func Tools(n Notifier) []ai.Tool {
	return []ai.Tool{
		{
			Name:        "createBooking",
			Description: "Create a booking request after collecting name, phone, time, and purpose.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"phone": map[string]any{"type": "string"},
					"date":  map[string]any{"type": "string"},
					"time":  map[string]any{"type": "string"},
					"notes": map[string]any{"type": "string"},
				},
				"required":             []string{"name", "phone", "date", "time", "notes"},
				"additionalProperties": false,
			},
			Execute: func(ctx context.Context, raw json.RawMessage) (string, error) {
				var in bookingArgs
				if err := json.Unmarshal(raw, &in); err != nil {
					return "", fmt.Errorf("createBooking args: %w", err)
				}
				if _, err := notify(ctx, n, bookingSummary(in)); err != nil {
					return "", err
				}
				return bookingNotedReply, nil
			},
		},
		{
			Name:        "notifyAdmin",
			Description: "Send a message to the admin for human follow-up.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"message": map[string]any{"type": "string"},
				},
				"required":             []string{"message"},
				"additionalProperties": false,
			},
			Execute: func(ctx context.Context, raw json.RawMessage) (string, error) {
				var in struct {
					Message string `json:"message"`
				}
				if err := json.Unmarshal(raw, &in); err != nil {
					return "", fmt.Errorf("notifyAdmin args: %w", err)
				}
				return notify(ctx, n, in.Message)
			},
		},
	}
}

// notify никогда не падает из-за отсутствия канала, только сообщает об этом.
func notify(ctx context.Context, n Notifier, text string) (string, error) {
	if n == nil {
		return notConfiguredReply, nil
	}
	if err := n.Notify(ctx, text); err != nil {
		if errors.Is(err, ErrNotifierNotConfigured) {
			return notConfiguredReply, nil
		}
		return "", fmt.Errorf("notify admin: %w", err)
	}
	return notifiedReply, nil
}

func bookingSummary(in bookingArgs) string {
	notes := strings.TrimSpace(in.Notes)
	if notes == "" {
		notes = "N/A"
	}
	return "New booking request:\n" +
		"Name: " + in.Name + "\n" +
		"Phone: " + in.Phone + "\n" +
		"Date: " + in.Date + "\n" +
		"Time: " + in.Time + "\n" +
		"Notes: " + notes
}

func leadSummary(userID string, st *State) string {
	slots, _ := json.Marshal(st.Slots)
	return "Lead ready for handoff:\n" +
		"User: " + userID + "\n" +
		"Topic: " + orNone(string(st.Topic)) + "\n" +
		"Slots: " + string(slots)
}
