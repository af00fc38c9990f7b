package chat

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/messages", h.HandleMessage)
	r.Get("/users/{userID}/transcript", h.HandleTranscript)
}
