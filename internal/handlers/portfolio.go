package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/carteiralabs/carteira/internal/models"
	"github.com/carteiralabs/carteira/internal/services"
)

type PortfolioHandler struct {
	service services.PortfolioService
}

func NewPortfolioHandler(service services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// HandleSummary handles GET /api/portfolio/summary
func (h *PortfolioHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to compute summary: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(summary)
}

// HandleEvolution handles GET /api/portfolio/evolution
func (h *PortfolioHandler) HandleEvolution(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = models.IntervalMonthly
	}
	if interval != models.IntervalDaily && interval != models.IntervalMonthly {
		http.Error(w, "interval must be 'daily' or 'monthly'", http.StatusBadRequest)
		return
	}

	var start, end time.Time
	if s := r.URL.Query().Get("start"); s != "" {
		date, err := time.Parse("2006-01-02", s)
		if err != nil {
			http.Error(w, "Invalid start date: "+err.Error(), http.StatusBadRequest)
			return
		}
		start = date
	}
	if e := r.URL.Query().Get("end"); e != "" {
		date, err := time.Parse("2006-01-02", e)
		if err != nil {
			http.Error(w, "Invalid end date: "+err.Error(), http.StatusBadRequest)
			return
		}
		end = date
	}

	points, err := h.service.Evolution(r.Context(), userID, interval, start, end)
	if err != nil {
		http.Error(w, "Failed to build evolution series: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(points)
}

// HandleDayChange handles GET /api/portfolio/daychange
func (h *PortfolioHandler) HandleDayChange(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	change, err := h.service.DayOverDay(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to compute day change: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(change)
}
