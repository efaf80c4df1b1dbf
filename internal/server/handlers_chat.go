package server

import (
	"net/http"
	"strings"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if s.app.ChatService == nil {
		WriteError(w, http.StatusServiceUnavailable, "Assistant not configured")
		return
	}

	if r.Method == http.MethodGet {
		transcript, err := s.app.ChatService.Transcript(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to load transcript: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"messages": transcript,
		})
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.app.ChatService.Send(r.Context(), req.Message)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Assistant error: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, reply)
}
