// AngelaMos | 2026
// handler.go

package purchase

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/checkout", h.Checkout)
		r.Get("/purchases", h.List)
		r.Get("/purchases/{purchaseID}", h.Get)
	})
}

// Checkout accepts an empty body to buy the whole cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	purchases, err := h.service.Checkout(r.Context(), authz.FromContext(r.Context()), req.ItemIDs)
	if err != nil {
		core.HandleError(w, err, "cart item")
		return
	}

	core.Created(w, ToCheckoutResponse(purchases))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.service.ListPurchases(r.Context(), authz.FromContext(r.Context()))
	if err != nil {
		core.HandleError(w, err, "purchase")
		return
	}

	core.OK(w, ToPurchaseResponseList(purchases))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "purchaseID")
	if err != nil {
		core.BadRequest(w, "invalid purchase id")
		return
	}

	p, err := h.service.GetPurchase(r.Context(), authz.FromContext(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "purchase")
		return
	}

	core.OK(w, ToPurchaseResponse(p))
}
