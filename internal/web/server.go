// Package web exposes the dashboard and the trade entry point over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/papervault/internal/domain"
)

const snapshotPollInterval = 2 * time.Second

type portfolioSnapshotReader interface {
	SnapshotsAfter(index uint64) ([]domain.PortfolioSnapshotRecord, error)
}

type vaultDriver interface {
	ExecuteTrade(ctx context.Context, action domain.Action, amount decimal.Decimal) (bool, error)
	TradeHistory() []domain.TradeRecord
}

// Server exposes HTTP endpoints serving the HTML UI, an SSE stream of
// portfolio snapshots, the trade log and trade submission.
type Server struct {
	Addr  string
	Store portfolioSnapshotReader
	Bot   vaultDriver
}

// NewServer creates a new web server instance.
func NewServer(addr string, store portfolioSnapshotReader, bot vaultDriver) *Server {
	return &Server{Addr: addr, Store: store, Bot: bot}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/portfolio/stream", s.handlePortfolioStream)
	mux.HandleFunc("/trades", s.handleTrades)
	mux.HandleFunc("/trade", s.handleTrade)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handlePortfolioStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "snapshot store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send a comment heartbeat every 30s so proxies keep connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(snapshotPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendSnapshots := func() error {
		records, err := s.Store.SnapshotsAfter(lastIndex)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: portfolio\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendSnapshots(); err != nil {
		http.Error(w, "failed to load snapshots", http.StatusInternalServerError)
		log.Printf("portfolio stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendSnapshots(); err != nil {
				log.Printf("portfolio stream poll err: %v", err)
			}
		}
	}
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if s.Bot == nil {
		http.Error(w, "vault not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Bot.TradeHistory()); err != nil {
		log.Printf("encode trade history: %v", err)
	}
}

type tradeRequest struct {
	Action string          `json:"action"`
	Amount decimal.Decimal `json:"amount"`
}

type tradeResponse struct {
	Executed bool `json:"executed"`
}

// handleTrade is the strategy driver's entry point: it tells the vault what
// to execute, the vault only books it.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Bot == nil {
		http.Error(w, "vault not available", http.StatusServiceUnavailable)
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil || action == domain.ActionHold {
		http.Error(w, "action must be BUY, SELL or RESET", http.StatusBadRequest)
		return
	}
	if action != domain.ActionReset && !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	executed, err := s.Bot.ExecuteTrade(r.Context(), action, req.Amount)
	if err != nil {
		log.Printf("execute trade: %v", err)
		http.Error(w, "price feed unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tradeResponse{Executed: executed})
}
