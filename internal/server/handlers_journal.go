package server

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultJournalLimit = 20
	defaultLogLimit     = 50
)

// limitParam parses the ?limit= query parameter, falling back to def.
func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// requireSupabase writes a 503 and returns false when the journal backend is
// not configured.
func (s *Server) requireSupabase(w http.ResponseWriter) bool {
	if s.app.SupabaseClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "Journal backend not configured")
		return false
	}
	return true
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.requireSupabase(w) {
		return
	}

	entries, err := s.app.SupabaseClient.RecentJournal(r.Context(), limitParam(r, defaultJournalLimit))
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to load journal: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

func (s *Server) handleJournalTicker(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.requireSupabase(w) {
		return
	}

	ticker := strings.ToUpper(PathParam(r, "/api/journal/", ""))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	entry, err := s.app.SupabaseClient.ReasoningFor(r.Context(), ticker)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to load reasoning: "+err.Error())
		return
	}
	if entry == nil {
		WriteError(w, http.StatusNotFound, "No journal entry for "+ticker)
		return
	}

	WriteJSON(w, http.StatusOK, entry)
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if !s.requireSupabase(w) {
		return
	}

	if r.Method == http.MethodGet {
		content, err := s.app.SupabaseClient.Notes(r.Context())
		if err != nil {
			WriteError(w, http.StatusBadGateway, "Failed to load notes: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"content": content})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.SupabaseClient.SaveNotes(r.Context(), req.Content); err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to save notes: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.requireSupabase(w) {
		return
	}

	logs, err := s.app.SupabaseClient.BotLogs(r.Context(), limitParam(r, defaultLogLimit))
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to load logs: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"logs": logs,
	})
}
