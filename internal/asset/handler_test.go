// AngelaMos | 2026
// handler_test.go

package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/middleware"
)

type staticVerifier map[string]authz.Principal

func (v staticVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	p, ok := v[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	return &middleware.AccessTokenClaims{UserID: p.UserID, Role: p.Role}, nil
}

func newTestRouter(f fixture) http.Handler {
	verifier := staticVerifier{
		"admin":       admin,
		"contributor": contributor,
		"buyer":       buyer,
	}

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(
		r,
		middleware.Authenticator(verifier),
		middleware.OptionalAuth(verifier),
	)
	return r
}

func do(t *testing.T, h http.Handler, method, target, token string, body any) (*httptest.ResponseRecorder, core.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp core.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHandlerUploadThenBrowse(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f)

	rec, resp := do(t, router, http.MethodPost, "/assets", "contributor", newUpload("sunset", 999))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := resp.Data.(map[string]any)
	assert.Equal(t, StatusPending, data["status"])
	assert.Equal(t, "9.99", data["price_display"])

	id := int64(data["id"].(float64))
	path := "/assets/" + strconv.FormatInt(id, 10)

	rec, _ = do(t, router, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodGet, path, "contributor", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	f.approve(t, id)

	rec, resp = do(t, router, http.MethodGet, "/assets?q=sunset&category=nature,travel", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data, 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestHandlerUploadRequiresRole(t *testing.T) {
	router := newTestRouter(newFixture())

	rec, _ := do(t, router, http.MethodPost, "/assets", "", newUpload("x", 1))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := do(t, router, http.MethodPost, "/assets", "buyer", newUpload("x", 1))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, resp.Success)
}

func TestHandlerRejectsMalformedSearch(t *testing.T) {
	router := newTestRouter(newFixture())

	for _, target := range []string{
		"/assets?min_price=cheap",
		"/assets?sort=popular",
		"/assets?min_price=10&max_price=5",
		"/assets?type=gif",
	} {
		rec, resp := do(t, router, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.NotNil(t, resp.Error, target)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code, target)
	}
}

func TestHandlerInvalidAssetID(t *testing.T) {
	router := newTestRouter(newFixture())

	rec, _ := do(t, router, http.MethodGet, "/assets/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{
		"q":         {" beach "},
		"type":      {"Photo"},
		"category":  {"nature, travel", "city"},
		"min_price": {"100"},
		"sort":      {"PRICE_ASC"},
	})
	require.NoError(t, err)

	assert.Equal(t, " beach ", q.Text)
	assert.Equal(t, TypePhoto, q.Type)
	assert.Equal(t, []string{"nature", "travel", "city"}, q.Categories)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, int64(100), *q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Equal(t, SortPriceAsc, q.Sort)
}
