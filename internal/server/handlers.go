package server

import (
	"net/http"

	"github.com/bobmcallan/pulse/internal/models"
	"github.com/bobmcallan/pulse/internal/services/portfolio"
)

// --- Brokerage data handlers ---

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	account := s.app.SyncService.Account()
	if account == nil {
		WriteError(w, http.StatusNotFound, "Account data not loaded yet")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"account":      account,
		"daily_change": portfolio.DailyChange(account),
		"loading":      s.app.SyncService.Loading().Account,
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	trades, status := s.app.SyncService.Trades()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trades":  trades,
		"status":  status,
		"loading": s.app.SyncService.Loading().Trades,
	})
}

// positionView is a Position annotated with its return on investment.
type positionView struct {
	models.Position
	ROI float64 `json:"roi"`
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	positions := s.app.SyncService.Positions()
	views := make([]positionView, len(positions))
	for i, p := range positions {
		views[i] = positionView{Position: p, ROI: portfolio.PositionROI(p)}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"positions": views,
		"loading":   s.app.SyncService.Loading().Positions,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	points, selectedRange := s.app.SyncService.History()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"range":          selectedRange,
		"points":         points,
		"percent_change": s.app.SyncService.PercentChange(),
		"loading":        s.app.SyncService.Loading().History,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.SyncService.RenderChart()
	if err != nil {
		WriteError(w, http.StatusNotFound, "Chart unavailable: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Key    string `json:"key"`
		Secret string `json:"secret"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.Key == "" || req.Secret == "" {
		WriteError(w, http.StatusBadRequest, "key and secret are required")
		return
	}

	s.app.SyncService.SetCredentials(models.Credentials{Key: req.Key, Secret: req.Secret})

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Range string `json:"range"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	selected := models.Range(req.Range)
	if !selected.Valid() {
		WriteError(w, http.StatusBadRequest, "range must be one of 1D, 1M, 1Y, ALL")
		return
	}

	s.app.SyncService.SelectRange(r.Context(), selected)

	points, current := s.app.SyncService.History()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"range":          current,
		"points":         points,
		"percent_change": s.app.SyncService.PercentChange(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	s.app.SyncService.RefreshAll(r.Context())

	trades, status := s.app.SyncService.Trades()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"trades":        len(trades),
		"trades_status": status,
		"positions":     len(s.app.SyncService.Positions()),
	})
}
