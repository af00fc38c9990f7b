package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

const defaultTranscriptLimit = 50

type Handler struct {
	svc        dialog.Service
	transcript TranscriptReader
	observer   RequestObserver
	log        *zap.Logger
	timeout    time.Duration
	locks      *userLocks
}

type HandlerOption func(*Handler)

func WithTranscriptReader(t TranscriptReader) HandlerOption {
	return func(h *Handler) { h.transcript = t }
}

func WithRequestObserver(o RequestObserver) HandlerOption {
	return func(h *Handler) {
		if o != nil {
			h.observer = o
		}
	}
}

func WithTurnTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func NewHandler(svc dialog.Service, log *zap.Logger, opts ...HandlerOption) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		svc:      svc,
		observer: nopObserver{},
		log:      log.Named("chat"),
		timeout:  60 * time.Second,
		locks:    newUserLocks(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type inbound struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
	Type   string `json:"type"`
}

type outbound struct {
	Reply string `json:"reply"`
}

// HandleMessage — вход пользовательского сообщения, ответ синхронный
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var payload inbound
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.observer.ObserveRequest("bad_request")
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		h.observer.ObserveRequest("bad_request")
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	// медиа не доходит до ядра
	switch strings.ToLower(strings.TrimSpace(payload.Type)) {
	case "", TypeChat:
	case TypePTT, TypeAudio:
		h.observer.ObserveRequest("voice")
		writeReply(w, dialog.VoiceNotice)
		return
	default:
		h.observer.ObserveRequest("unsupported")
		writeReply(w, dialog.UnsupportedNotice)
		return
	}

	if strings.TrimSpace(payload.Text) == "" {
		h.observer.ObserveRequest("bad_request")
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	reply, err := h.turn(r.Context(), userID, payload.Text)
	if err != nil {
		h.log.Error("turn failed", zap.String("user_id", userID), zap.Error(err))
		h.observer.ObserveRequest("error")
		writeReply(w, dialog.ApologyReply)
		return
	}

	h.observer.ObserveRequest("ok")
	writeReply(w, reply)
}

func (h *Handler) turn(ctx context.Context, userID, text string) (string, error) {
	unlock := h.locks.lock(userID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.svc.HandleMessage(ctx, userID, text)
}

// HandleTranscript — архив переписки пользователя
func (h *Handler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	if h.transcript == nil {
		http.Error(w, "transcript is not configured", http.StatusNotFound)
		return
	}

	userID := chi.URLParam(r, "userID")
	limit := defaultTranscriptLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	msgs, err := h.transcript.History(r.Context(), userID, limit)
	if err != nil {
		h.log.Error("transcript read failed", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "transcript error", http.StatusInternalServerError)
		return
	}

	type item struct {
		Role      string    `json:"role"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]item, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, item{Role: string(m.Role), Text: m.Text, CreatedAt: m.CreatedAt})
	}
	writeJSON(w, out)
}

func writeReply(w http.ResponseWriter, reply string) {
	writeJSON(w, outbound{Reply: reply})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
