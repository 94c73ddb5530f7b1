// Package api exposes the stored bhav copy history through a small HTTP
// read API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"nse-bhav/internal/models"
	"nse-bhav/internal/store"
)

// Server hosts the read endpoints over one store handle.
type Server struct {
	store  store.DataStore
	addr   string
	logger zerolog.Logger

	httpServer *http.Server
}

// NewServer creates a Server listening on addr.
func NewServer(st store.DataStore, addr string, logger zerolog.Logger) *Server {
	return &Server{store: st, addr: addr, logger: logger}
}

// Handler returns the route table, exposed separately for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/symbols", s.handleSymbols)
	mux.HandleFunc("/api/history", s.handleHistory)
	return mux
}

// ListenAndServe starts the HTTP listener and blocks until the context is
// cancelled or a fatal error occurs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.addr).Msg("Read API listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

type symbolsResponse struct {
	Series  string   `json:"series"`
	Symbols []string `json:"symbols"`
}

// handleSymbols returns the distinct symbols for one series code,
// defaulting to normal equity.
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	series := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("series")))
	if series == "" {
		series = "EQ"
	}

	symbols, err := s.store.Symbols(r.Context(), series)
	if err != nil {
		s.logger.Error().Err(err).Msg("Symbols query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if symbols == nil {
		symbols = []string{}
	}

	writeJSON(w, http.StatusOK, symbolsResponse{Series: series, Symbols: symbols})
}

type historyResponse struct {
	Symbol   string              `json:"symbol"`
	Series   string              `json:"series"`
	FromDate models.Date         `json:"from_date"`
	ToDate   models.Date         `json:"to_date"`
	Count    int                 `json:"count"`
	Data     []models.HistoryBar `json:"data"`
}

// handleHistory returns OHLCV history for one (symbol, series, range)
// triple. The range defaults to the trailing year.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()

	symbol := strings.ToUpper(strings.TrimSpace(q.Get("symbol")))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	series := strings.ToUpper(strings.TrimSpace(q.Get("series")))
	if series == "" {
		series = "EQ"
	}

	today := models.Today(time.Local)
	to := today
	from := today.AddDays(-365)

	if v := q.Get("from"); v != "" {
		parsed, err := models.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := q.Get("to"); v != "" {
		parsed, err := models.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
		to = parsed
	}

	if from.After(to) {
		writeError(w, http.StatusBadRequest, "from date must not be after to date")
		return
	}

	bars, err := s.store.History(r.Context(), symbol, series, from, to)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("History query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if bars == nil {
		bars = []models.HistoryBar{}
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Symbol:   symbol,
		Series:   series,
		FromDate: from,
		ToDate:   to,
		Count:    len(bars),
		Data:     bars,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
