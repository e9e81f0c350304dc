// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"farmstand/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router. authSecret enables
// bearer-token identity resolution; when empty, the X-Account header is
// trusted instead.
func NewRouter(marketplaceHandler *handler.MarketplaceHandler, authSecret string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(handler.Identity(authSecret))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Catalog routes
	r.Route("/items", func(r chi.Router) {
		r.Post("/", marketplaceHandler.ListItem)
		r.Get("/", marketplaceHandler.ListItems)
		r.Get("/next-id", marketplaceHandler.NextItemID)
		r.Get("/{itemID}", marketplaceHandler.GetItem)
		r.Post("/{itemID}/buy", marketplaceHandler.BuyItem)
	})

	// Settlement routes
	r.Route("/sellers/{account}", func(r chi.Router) {
		r.Get("/earnings", marketplaceHandler.GetEarnings)
		r.Get("/earnings/{currency}", marketplaceHandler.GetCurrencyEarnings)
		r.Get("/entries", marketplaceHandler.GetLedgerEntries)
	})

	// Withdrawal acts on the calling seller's own balance
	r.Post("/withdrawals/{currency}", marketplaceHandler.Withdraw)

	return r
}
