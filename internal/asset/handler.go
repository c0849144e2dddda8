// AngelaMos | 2026
// handler.go

package asset

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

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

// RegisterRoutes mounts the catalogue. Browsing accepts an optional bearer
// token so authors and admins can see their unapproved uploads by id.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/assets", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)

			r.Get("/", h.Search)
			r.Get("/categories", h.Categories)
			r.Get("/{assetID}", h.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/mine", h.ListMine)
			r.Post("/", h.Create)
			r.Patch("/{assetID}", h.Update)
			r.Delete("/{assetID}", h.Delete)
		})
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	page := Page{
		Number: core.QueryInt(r, "page", 1),
		Size:   core.QueryInt(r, "page_size", DefaultPageSize),
	}

	result, err := h.service.Search(r.Context(), q, page)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.Paginated(
		w,
		ToAssetResponseList(result.Items),
		result.Page.Number,
		result.Page.Size,
		result.Total,
	)
}

// ParseQuery reads catalogue filters from URL parameters. Categories may
// be repeated or comma separated.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{
		Text: values.Get("q"),
		Type: strings.ToLower(strings.TrimSpace(values.Get("type"))),
		Sort: strings.ToLower(strings.TrimSpace(values.Get("sort"))),
	}

	for _, raw := range values["category"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Categories = append(q.Categories, c)
			}
		}
	}

	var err error
	if q.MinPrice, err = priceParam(values, "min_price"); err != nil {
		return Query{}, err
	}
	if q.MaxPrice, err = priceParam(values, "max_price"); err != nil {
		return Query{}, err
	}

	return q, nil
}

func priceParam(values url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, core.ValidationError(key + " must be an integer")
	}
	return &v, nil
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Categories(r.Context())
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.OK(w, facets)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	a, err := h.service.Get(r.Context(), authz.FromContext(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.OK(w, ToAssetResponse(a))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.ListMine(r.Context(), authz.FromContext(r.Context()))
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.OK(w, ToAssetResponseList(assets))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	a, err := h.service.Create(r.Context(), authz.FromContext(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.Created(w, ToAssetResponse(a))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateAssetRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	a, err := h.service.Update(r.Context(), authz.FromContext(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.OK(w, ToAssetResponse(a))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), authz.FromContext(r.Context()), id); err != nil {
		core.HandleError(w, err, "asset")
		return
	}

	core.NoContent(w)
}

func assetIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := core.PathID(r, "assetID")
	if err != nil {
		core.BadRequest(w, "invalid asset id")
		return 0, false
	}
	return id, true
}
