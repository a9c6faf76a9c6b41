package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Trace", name)
			next.ServeHTTP(w, r)
		})
	}
}

func echo(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, r.Method+" "+chi.URLParam(r, "id")) //nolint:errcheck
}

func TestGroupsChainMiddlewareOuterFirst(t *testing.T) {
	r := New()
	api := r.Group("/api", tag("api"))
	admin := api.Group("admin/", tag("admin"))
	admin.Delete("/products/{id}", "products.destroy", echo, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/admin/products/42", nil))

	assert.Equal(t, "DELETE 42", rec.Body.String())
	assert.Equal(t, []string{"api", "admin", "route"}, rec.Header().Values("X-Trace"))
}

func TestNamedRoutes(t *testing.T) {
	r := New()
	g := r.Group("/api/orders")
	g.Get("/{id}", "orders.show", echo)
	g.Put("/{id}/status", "orders.status", echo)
	r.Post("/api/auth/login", "auth.login", echo)

	p, ok := r.Path("orders.status")
	require.True(t, ok)
	assert.Equal(t, "/api/orders/{id}/status", p)

	u, err := r.URL("orders.show", map[string]string{"id": "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/o-1", u)

	_, err = r.URL("orders.show", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/api/auth/login", routes[0].Path)
	assert.Equal(t, "/api/orders/{id}/status", routes[2].Path)
}

func TestMountStripsPrefix(t *testing.T) {
	r := New()
	r.Mount("/uploads", "uploads", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, req.URL.Path) //nolint:errcheck
	}))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/uploads/products/a.png", nil))
	assert.Equal(t, "/products/a.png", rec.Body.String())
}

func TestCustomNotFoundAndMethodNotAllowed(t *testing.T) {
	r := New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { http.Error(w, "none here", http.StatusNotFound) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { http.Error(w, "wrong verb", http.StatusMethodNotAllowed) })
	r.Get("/health", "health", echo)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "none here"))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath("", "/"))
	assert.Equal(t, "/api/products", joinPath("/api/", "/products/"))
	assert.Equal(t, "/", normalizePath(""))
}
