// internal/api/handler/marketplace.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"farmstand/internal/api/types"
	"farmstand/internal/domain"
	"farmstand/internal/service"
	"farmstand/internal/util"
)

// DefaultTimeout is the per-request timeout applied by the router.
const DefaultTimeout = 30 * time.Second

// Pagination defaults for entry listings.
const (
	defaultEntryLimit = 20
	maxEntryLimit     = 100
)

// MarketplaceHandler handles HTTP requests for the marketplace ledger.
type MarketplaceHandler struct {
	service service.MarketplaceService
	logger  *slog.Logger
}

// NewMarketplaceHandler creates a new MarketplaceHandler.
func NewMarketplaceHandler(svc service.MarketplaceService, logger *slog.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{
		service: svc,
		logger:  logger,
	}
}

// Helper function to send JSON responses.
func (h *MarketplaceHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses. Known sentinel errors carry their
// stable numeric code alongside the HTTP status.
func (h *MarketplaceHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrItemNotFound):
		statusCode = http.StatusNotFound
		message = "Item not found"
	case util.IsError(err, util.ErrItemUnavailable):
		statusCode = http.StatusConflict
		message = "Item inactive or insufficient stock"
	case util.IsError(err, util.ErrNotSeller):
		statusCode = http.StatusForbidden
		message = "Caller is not the item's seller"
	case util.IsError(err, util.ErrNoEarnings):
		statusCode = http.StatusPaymentRequired
		message = "No earnings to withdraw"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	body := map[string]interface{}{"error": message}
	if code := util.ErrorCode(err); code != 0 {
		body["code"] = code
	}
	h.respondWithJSON(w, statusCode, body)
}

// requireCaller returns the caller account or writes a 401 and returns "".
func (h *MarketplaceHandler) requireCaller(w http.ResponseWriter, r *http.Request) string {
	account := CallerFromContext(r.Context())
	if account == "" {
		h.respondWithJSON(w, http.StatusUnauthorized, map[string]string{"error": "Caller identity required"})
	}
	return account
}

// itemResponse decorates an item with its display-unit price.
func itemResponse(item *domain.Item) map[string]interface{} {
	return map[string]interface{}{
		"item":          item,
		"display_price": util.FormatAmount(item.Price),
	}
}

// ListItemRequest represents the request body for creating a listing.
type ListItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
}

// ListItem handles the create listing request.
// POST /items
func (h *MarketplaceHandler) ListItem(w http.ResponseWriter, r *http.Request) {
	seller := h.requireCaller(w, r)
	if seller == "" {
		return
	}

	var req ListItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	item, err := h.service.ListItem(r.Context(), seller, req.Name, req.Description, req.ImageURL, req.Price, req.Quantity)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"item_id": item.ID,
		"item":    item,
	})
}

// GetItem handles the single item lookup.
// GET /items/{itemID}
func (h *MarketplaceHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	item, err := h.service.GetItem(r.Context(), itemID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, itemResponse(item))
}

// ListItems handles the catalog listing.
// GET /items?active=true
func (h *MarketplaceHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	items, err := h.service.ListItems(r.Context(), activeOnly)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// NextItemID handles the next-id lookup.
// GET /items/next-id
func (h *MarketplaceHandler) NextItemID(w http.ResponseWriter, r *http.Request) {
	next, err := h.service.NextItemID(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"next_item_id": next})
}

// BuyItemRequest represents the request body for a purchase.
type BuyItemRequest struct {
	Quantity  int64 `json:"quantity"`
	UseNative bool  `json:"use_native"`
}

// BuyItem handles the purchase request.
// POST /items/{itemID}/buy
func (h *MarketplaceHandler) BuyItem(w http.ResponseWriter, r *http.Request) {
	buyer := h.requireCaller(w, r)
	if buyer == "" {
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	var req BuyItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	item, entry, err := h.service.BuyItem(r.Context(), buyer, itemID, req.Quantity, req.UseNative)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":             true,
		"item":           item,
		"entry_id":       entry.ID,
		"amount":         entry.Amount,
		"display_amount": util.FormatAmount(entry.Amount),
	})
}

// parseCurrency maps a URL path segment onto a ledger currency.
func parseCurrency(s string) (domain.Currency, error) {
	switch s {
	case "native":
		return domain.CurrencyNative, nil
	case "stable":
		return domain.CurrencyStable, nil
	}
	return "", util.ErrInvalidInput
}

// GetEarnings handles the combined earnings lookup.
// GET /sellers/{account}/earnings
func (h *MarketplaceHandler) GetEarnings(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	if account == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	earnings, err := h.service.GetCombinedEarnings(r.Context(), account)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"seller":         account,
		"native":         earnings.Native,
		"stable":         earnings.Stable,
		"display_native": util.FormatAmount(earnings.Native),
		"display_stable": util.FormatAmount(earnings.Stable),
	})
}

// GetCurrencyEarnings handles the per-currency earnings lookup.
// GET /sellers/{account}/earnings/{currency}
func (h *MarketplaceHandler) GetCurrencyEarnings(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	currency, err := parseCurrency(chi.URLParam(r, "currency"))
	if account == "" || err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	balance, err := h.service.GetSellerEarnings(r.Context(), account, currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"seller":   account,
		"currency": currency,
		"balance":  balance,
	})
}

// Withdraw handles the withdrawal request for the calling seller.
// POST /withdrawals/{currency}
func (h *MarketplaceHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	seller := h.requireCaller(w, r)
	if seller == "" {
		return
	}

	currency, err := parseCurrency(chi.URLParam(r, "currency"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	amount, err := h.service.Withdraw(r.Context(), seller, currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":             true,
		"seller":         seller,
		"currency":       currency,
		"amount":         amount,
		"display_amount": util.FormatAmount(amount),
	})
}

// GetLedgerEntries handles the paginated entry listing for a seller.
// GET /sellers/{account}/entries
func (h *MarketplaceHandler) GetLedgerEntries(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	if account == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	limit := defaultEntryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxEntryLimit {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
		limit = n
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
		offset = n
	}

	entries, totalCount, err := h.service.GetLedgerEntries(r.Context(), account, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Entry]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
