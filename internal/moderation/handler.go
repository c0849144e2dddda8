// AngelaMos | 2026
// handler.go

package moderation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
)

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

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
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/moderation", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.Queue)
		r.Post("/{assetID}/approve", h.Approve)
		r.Post("/{assetID}/reject", h.Reject)
	})
}

func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	page := asset.Page{
		Number: core.QueryInt(r, "page", 1),
		Size:   core.QueryInt(r, "page_size", asset.DefaultPageSize),
	}.Normalize()

	items, total, err := h.service.Queue(
		r.Context(),
		authz.FromContext(r.Context()),
		r.URL.Query().Get("status"),
		page,
	)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.Paginated(w, asset.ToAssetResponseList(items), page.Number, page.Size, total)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "assetID")
	if err != nil {
		core.BadRequest(w, "invalid asset id")
		return
	}

	a, err := h.service.Approve(r.Context(), authz.FromContext(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.OK(w, asset.ToAssetResponse(a))
}

// Reject accepts an optional JSON body carrying the reason.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "assetID")
	if err != nil {
		core.BadRequest(w, "invalid asset id")
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Reject(r.Context(), authz.FromContext(r.Context()), id, req.Reason)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.OK(w, asset.ToAssetResponse(a))
}
