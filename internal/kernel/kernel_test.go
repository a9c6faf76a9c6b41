package kernel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/repositories/memory"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func TestMain(m *testing.M) {
	logger.Silence(io.Discard)
	os.Exit(m.Run())
}

func newKernel(t *testing.T) *Kernel {
	t.Helper()
	k, err := New(Options{Store: memory.New()})
	require.NoError(t, err)
	t.Cleanup(func() { k.Close(context.Background()) })
	return k
}

func emptyAPI(t *testing.T) http.Handler { return newKernel(t).Handler() }

// seededAPI carries the demo catalog and an admin/admin-secret-1 account.
func seededAPI(t *testing.T) http.Handler {
	k := newKernel(t)
	ctx := context.Background()
	require.NoError(t, seeders.RunAll(ctx, k.Services, nil))
	_, err := k.Services.Users.CreateUser(ctx, services.UserInput{
		FullName: "Store Admin",
		Username: "admin",
		Email:    "admin@example.com",
		Role:     auth.RoleAdmin,
		Password: "admin-secret-1",
	})
	require.NoError(t, err)
	return k.Handler()
}

func TestAPIScenarios(t *testing.T) {
	testkit.RunSuite(t, "testdata/suite.json", map[string]testkit.Factory{
		"empty":  emptyAPI,
		"seeded": seededAPI,
	})
}

func TestHealth(t *testing.T) {
	h := emptyAPI(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Data["status"])
	assert.Equal(t, "memory", body.Data["store"])
}

func TestUnknownRouteAnswersEnvelope(t *testing.T) {
	h := emptyAPI(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"status":404,"message":"Route not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/colors", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := emptyAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/colors", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := emptyAPI(t)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sizes", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}

func TestRoutesAreNamed(t *testing.T) {
	k := newKernel(t)

	names := map[string]bool{}
	for _, r := range k.Router.Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{"auth.login", "products.variant", "orders.admin.place", "inventory.reconcile", "cart.checkout", "graphql", "health"} {
		assert.True(t, names[want], want)
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), "oracle", false, nil)
	assert.ErrorContains(t, err, "unknown DB_DRIVER")

	s, err := OpenStore(context.Background(), "memory", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Backend)
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
