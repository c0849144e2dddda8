// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("unreachable") }

func serve(t *testing.T, h *Handler, path string) (int, ReadinessResponse) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "store", Checker: CheckerFunc(up)},
		Dependency{Name: "redis", Checker: CheckerFunc(up)},
	)

	code, body := serve(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.0.0", body.Version)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "store", body.Checks[0].Name)
}

func TestReadinessDegradedOnRequiredFailure(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: CheckerFunc(down)},
		Dependency{Name: "redis", Checker: CheckerFunc(up)},
	)

	code, body := serve(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.Checks[0].Healthy)
	assert.Equal(t, "ping failed", body.Checks[0].Message)
}

func TestReadinessIgnoresOptionalFailure(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "store", Checker: CheckerFunc(up)},
		Dependency{Name: "events", Checker: CheckerFunc(down), Optional: true},
	)

	code, body := serve(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, body.Checks[1].Healthy)
}

func TestReadinessMissingChecker(t *testing.T) {
	code, body := serve(t, NewHandler("dev", Dependency{Name: "redis"}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not configured", body.Checks[0].Message)
}

func TestShutdownFlipsProbes(t *testing.T) {
	h := NewHandler("dev")

	code, _ := serve(t, h, "/livez")
	assert.Equal(t, http.StatusOK, code)

	h.SetShutdown(true)
	code, body := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "shutting_down", body.Status)

	h.SetShutdown(false)
	h.SetReady(false)
	code, body = serve(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body.Status)
}
