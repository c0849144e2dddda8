// AngelaMos | 2026
// handler.go

package cart

import (
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
	r.Route("/cart", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Delete("/", h.Clear)
		r.Post("/items", h.Add)
		r.Delete("/items/{itemID}", h.Remove)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.ListCart(r.Context(), authz.FromContext(r.Context()))
	if err != nil {
		core.HandleError(w, err, "cart")
		return
	}

	core.OK(w, ToCartResponse(c))
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	item, err := h.service.AddToCart(
		r.Context(),
		authz.FromContext(r.Context()),
		req.AssetID,
		req.LicenseType,
	)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.Created(w, ToItemResponse(item))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "itemID")
	if err != nil {
		core.BadRequest(w, "invalid cart item id")
		return
	}

	removed, err := h.service.RemoveFromCart(r.Context(), authz.FromContext(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "cart item")
		return
	}
	if !removed {
		core.NotFound(w, "cart item")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ClearCart(r.Context(), authz.FromContext(r.Context()))
	if err != nil {
		core.HandleError(w, err, "cart")
		return
	}

	core.OK(w, RemovedResponse{Removed: n})
}
