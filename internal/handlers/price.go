package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/carteiralabs/carteira/internal/repositories"
	"github.com/carteiralabs/carteira/internal/services"
)

type PriceHandler struct {
	provider services.QuoteProvider
	history  repositories.PriceHistoryRepository
}

func NewPriceHandler(provider services.QuoteProvider, history repositories.PriceHistoryRepository) *PriceHandler {
	return &PriceHandler{provider: provider, history: history}
}

// HandleHistory handles GET /api/prices/{ticker}/history
func (h *PriceHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prices, err := h.history.GetRange(r.Context(), ticker, start, end)
	if err != nil {
		http.Error(w, "Failed to get price history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(prices)
}

// HandlePopulate handles POST /api/prices/{ticker}/populate. It pulls
// daily closes from the live provider and upserts them into the local
// history so snapshot replays have something to price against.
func (h *PriceHandler) HandlePopulate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prices, err := h.provider.GetHistoricalDaily(r.Context(), ticker, start, end)
	if err != nil {
		http.Error(w, "Failed to fetch historical prices: "+err.Error(), http.StatusBadGateway)
		return
	}

	if err := h.history.SavePrices(r.Context(), prices); err != nil {
		http.Error(w, "Failed to save prices: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"ticker": ticker,
		"saved":  len(prices),
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	})
}

// parseDateRange reads start/end query params, defaulting to the last
// year ending today.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)

	if s := r.URL.Query().Get("start"); s != "" {
		date, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = date
	}
	if e := r.URL.Query().Get("end"); e != "" {
		date, err := time.Parse("2006-01-02", e)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = date
	}
	return start, end, nil
}
