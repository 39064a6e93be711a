package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const maxBodyBytes = 64 << 10

type StorefrontHandler struct {
	sf port.Storefront
}

// Register mounts the catalog routes and the session routes. Session
// routes require the [SessionHeader] header.
func Register(mux *http.ServeMux, sf port.Storefront) {
	h := StorefrontHandler{sf}

	mux.HandleFunc("GET /v1/catalog/external", h.SearchExternal)
	mux.HandleFunc("GET /v1/catalog/local", h.SearchLocal)
	mux.HandleFunc("GET /v1/catalog/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/catalog/browse", h.Browse)
	mux.HandleFunc("GET /v1/catalog/featured", h.Featured)
	mux.HandleFunc("GET /v1/catalog/suggestions", h.Suggest)
	mux.HandleFunc("GET /v1/catalog/categories", h.Categories)

	session := func(pattern string, hf http.HandlerFunc) {
		mux.Handle(pattern, RequireSession(AllowJSON(hf)))
	}
	session("GET /v1/cart", h.GetCart)
	session("POST /v1/cart/items", h.AddToCart)
	session("PUT /v1/cart/items/{id}", h.UpdateQuantity)
	session("DELETE /v1/cart/items/{id}", h.RemoveFromCart)
	session("POST /v1/checkout", h.Checkout)
	session("POST /v1/product-requests", h.RequestProduct)
	session("GET /v1/state", h.GetState)
	session("PUT /v1/state/tab", h.ChangeTab)
	session("PUT /v1/state/category", h.SelectCategory)
	session("POST /v1/state/home", h.GoHome)
	session("POST /v1/search", h.Search)
	session("DELETE /v1/notification", h.Dismiss)
	session("GET /v1/searches/recent", h.RecentSearches)
	session("GET /v1/update-prompt", h.GetUpdatePrompt)
	session("POST /v1/update-prompt/hide", h.HideUpdatePrompt)
}

func (h StorefrontHandler) SearchExternal(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.SearchExternal"
	q := r.URL.Query()
	ps := h.sf.SearchExternal(q.Get("q"), q.Get("category"))
	writeJSON(w, op, http.StatusOK, toProducts(ps))
}

func (h StorefrontHandler) SearchLocal(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.SearchLocal"
	q := r.URL.Query()
	ps := h.sf.SearchLocal(q.Get("q"), q.Get("category"))
	writeJSON(w, op, http.StatusOK, toProducts(ps))
}

func (h StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetProduct"

	p, err := h.sf.Product(r.PathValue("id"))
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, toProduct(p))
}

func (h StorefrontHandler) Browse(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.Browse"

	v := r.URL.Query()
	q := catalog.Query{
		Text:     v.Get("q"),
		Category: v.Get("category"),
		Origin:   domain.OriginAll,
		Sort:     domain.SortDefault,
	}
	if o := v.Get("origin"); o != "" {
		q.Origin = domain.Origin(o)
	}
	if s := v.Get("sort"); s != "" {
		q.Sort = domain.SortOrder(s)
	}
	if !q.Origin.Valid() || !q.Sort.Valid() {
		http.Error(w, "invalid origin or sort", http.StatusBadRequest)
		return
	}
	writeJSON(w, op, http.StatusOK, toProducts(h.sf.Browse(q)))
}

func (h StorefrontHandler) Featured(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.Featured"
	writeJSON(w, op, http.StatusOK, toFeatured(h.sf.Featured()))
}

func (h StorefrontHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.Suggest"
	s := h.sf.Suggest(r.URL.Query().Get("q"))
	writeJSON(w, op, http.StatusOK, toSuggestions(s))
}

func (h StorefrontHandler) Categories(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.Categories"
	cs := h.sf.Categories()
	if cs == nil {
		cs = []string{}
	}
	writeJSON(w, op, http.StatusOK, cs)
}

func (h StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetCart"
	writeJSON(w, op, http.StatusOK, toCart(h.sf.Cart(sessionID(r))))
}

func (h StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.AddToCart"

	var req AddItemRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	c, err := h.sf.AddToCart(sessionID(r), req.ProductID, req.Quantity)
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, toCart(c))
}

func (h StorefrontHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.UpdateQuantity"

	var req QuantityRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	c := h.sf.UpdateQuantity(sessionID(r), r.PathValue("id"), req.Quantity)
	writeJSON(w, op, http.StatusOK, toCart(c))
}

func (h StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.RemoveFromCart"
	c := h.sf.RemoveFromCart(sessionID(r), r.PathValue("id"))
	writeJSON(w, op, http.StatusOK, toCart(c))
}

func (h StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.Checkout"
	log := slog.With("op", op)

	var req Customer
	if !decodeJSON(w, r, op, &req) {
		return
	}

	o, err := h.sf.Checkout(r.Context(), sessionID(r), req.toDomain())
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusAccepted, toOrder(o))
	log.Info("accepted", "order_id", o.ID, "total_dzd", o.Total.DZD)
}

func (h StorefrontHandler) RequestProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.RequestProduct"
	log := slog.With("op", op)

	var req ProductRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}

	pr, err := h.sf.RequestProduct(r.Context(), sessionID(r), req.toDomain())
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusAccepted, ProductRequestAccepted{
		RequestID:   pr.ID,
		RequestedAt: pr.RequestedAt,
	})
	log.Info("accepted", "request_id", pr.ID)
}

func (h StorefrontHandler) GetState(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetState"
	writeJSON(w, op, http.StatusOK, toState(h.sf.State(sessionID(r))))
}

func (h StorefrontHandler) ChangeTab(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ChangeTab"

	var req TabRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	st, err := h.sf.ChangeTab(sessionID(r), domain.Tab(req.Tab))
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, toState(st))
}

func (h StorefrontHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.SelectCategory"

	var req CategoryRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	writeJSON(w, op, http.StatusOK, toState(h.sf.SelectCategory(sessionID(r), req.Category)))
}

func (h StorefrontHandler) GoHome(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GoHome"
	writeJSON(w, op, http.StatusOK, toState(h.sf.GoHome(sessionID(r))))
}

func (h StorefrontHandler) Search(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.Search"

	var req SearchRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	st, err := h.sf.Search(r.Context(), sessionID(r), req.Query)
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, toState(st))
}

func (h StorefrontHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.Dismiss"
	writeJSON(w, op, http.StatusOK, toState(h.sf.Dismiss(sessionID(r))))
}

func (h StorefrontHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.RecentSearches"

	recent, err := h.sf.RecentSearches(r.Context(), sessionID(r))
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, recent)
}

func (h StorefrontHandler) GetUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetUpdatePrompt"

	hidden, err := h.sf.UpdatePromptHidden(r.Context(), sessionID(r))
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, UpdatePrompt{Hidden: hidden})
}

func (h StorefrontHandler) HideUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.HideUpdatePrompt"

	until, err := h.sf.HideUpdatePrompt(r.Context(), sessionID(r))
	if err != nil {
		writeErr(w, op, err)
		return
	}
	until = until.UTC().Truncate(time.Millisecond)
	writeJSON(w, op, http.StatusOK, UpdatePrompt{Hidden: true, Until: &until})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		slog.With("op", op).Warn("failed to parse JSON", "err", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, op string, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		slog.With("op", op).Error("failed to encode response", "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		slog.With("op", op).Error("failed to write response body", "err", err)
	}
}

func writeErr(w http.ResponseWriter, op string, err error) {
	log := slog.With("op", op)

	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	} else {
		log.Warn("request rejected", "err", err)
	}
	http.Error(w, http.StatusText(status)+": "+publicMessage(err), status)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCustomer),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidTab):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrCheckoutInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSubmissionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides wrapped internals and keeps the sentinel text.
func publicMessage(err error) string {
	for _, target := range []error{
		domain.ErrProductNotFound,
		domain.ErrInvalidTab,
		domain.ErrEmptyCart,
		domain.ErrCheckoutInProgress,
		domain.ErrSubmissionFailed,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if errors.Is(err, domain.ErrInvalidCustomer) || errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	return "internal error"
}
