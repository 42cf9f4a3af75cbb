// Package main implements a mock retailer and message sink for local
// development. It serves product pages for both URL schemes with prices
// that can be changed at runtime, and records notifications posted to it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const defaultPrice = "$999.99"

// shop holds page prices keyed by request path. An empty price renders a
// page without a price element.
type shop struct {
	mu        sync.Mutex
	prices    map[string]string
	failEvery int64
	requests  atomic.Int64
}

func newShop(failEvery int) *shop {
	return &shop{prices: map[string]string{}, failEvery: int64(failEvery)}
}

func (s *shop) price(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.prices[path]; ok {
		return p
	}
	return defaultPrice
}

func (s *shop) setPrice(path, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[path] = price
}

// inbox records notification payloads.
type inbox struct {
	mu       sync.Mutex
	messages []string
}

func (b *inbox) add(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

func (b *inbox) list() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.messages...)
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	failEvery := flag.Int("fail-every", 0, "answer every Nth page request with 500 (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock retailer", "addr", addr, "fail_every", *failEvery)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, newShop(*failEvery), &inbox{})),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, s *shop, b *inbox) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/prices", setPriceHandler(logger, s))
	mux.HandleFunc("GET /admin/prices", listPricesHandler(s))
	mux.HandleFunc("POST /notify", notifyHandler(logger, b))
	mux.HandleFunc("GET /messages", messagesHandler(b))
	mux.HandleFunc("GET /", pageHandler(logger, s))
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// renderPage returns markup matching the built-in selectors: slug pages
// (.html) carry span.price, path pages carry a bdi element.
func renderPage(path, price string) string {
	var priceHTML string
	switch {
	case price == "":
		priceHTML = `<p class="sold-out">Currently unavailable</p>`
	case strings.HasSuffix(path, ".html"):
		priceHTML = `<span class="price">` + html.EscapeString(price) + `</span>`
	default:
		priceHTML = `<p class="price"><span class="amount"><bdi>` + html.EscapeString(price) + `</bdi></span></p>`
	}
	return "<!DOCTYPE html>\n<html><head><title>" + html.EscapeString(path) +
		"</title></head><body><div class=\"product\">" + priceHTML + "</div></body></html>\n"
}

func pageHandler(logger *slog.Logger, s *shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := s.requests.Add(1)
		if s.failEvery > 0 && n%s.failEvery == 0 {
			logger.Warn("injected failure", "path", r.URL.Path, "request", n)
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write([]byte(renderPage(r.URL.Path, s.price(r.URL.Path))))
	}
}

type priceUpdate struct {
	Path  string `json:"path"`
	Price string `json:"price"`
}

func setPriceHandler(logger *slog.Logger, s *shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u priceUpdate
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil || !strings.HasPrefix(u.Path, "/") {
			http.Error(w, `expected {"path": "/...", "price": "..."}`, http.StatusBadRequest)
			return
		}
		s.setPrice(u.Path, u.Price)
		logger.Info("price set", "path", u.Path, "price", u.Price)
		w.WriteHeader(http.StatusNoContent)
	}
}

func listPricesHandler(s *shop) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		updates := make([]priceUpdate, 0, len(s.prices))
		for p, v := range s.prices {
			updates = append(updates, priceUpdate{Path: p, Price: v})
		}
		s.mu.Unlock()
		sort.Slice(updates, func(i, j int) bool { return updates[i].Path < updates[j].Path })

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(updates)
	}
}

// notifyHandler accepts both the message API ({"message"}) and Discord
// ({"content"}) payload shapes.
func notifyHandler(logger *slog.Logger, b *inbox) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Message string `json:"message"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		msg := payload.Message
		if msg == "" {
			msg = payload.Content
		}
		if msg == "" {
			http.Error(w, "empty message", http.StatusBadRequest)
			return
		}

		b.add(msg)
		logger.Info("notification received", "message", msg)
		w.WriteHeader(http.StatusNoContent)
	}
}

func messagesHandler(b *inbox) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(b.list())
	}
}
