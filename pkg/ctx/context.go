// Package ctx gives handlers a single *Context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func ShowProduct(c *ctx.Context) {
//	    p, err := products.Get(c.Context(), c.Param("id"))
//	    ...
//	    c.Success(p)
//	}
//
//	r.Get("/products/{id}", "products.show", ctx.Wrap(ShowProduct))
package ctx

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc into an http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps one request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request ──────────────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/products/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt parses an integer query value, returning def when absent or bad.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) Method() string { return c.R.Method }
func (c *Context) Path() string   { return c.R.URL.Path }

// ClientIP returns the first X-Forwarded-For hop, X-Real-Ip, or the remote address.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the authenticated caller, if any.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.IdentityFrom(c.R.Context())
}

// UserID is the authenticated caller's id, or "".
func (c *Context) UserID() string {
	id, _ := c.Identity()
	return id.UserID
}

// IsAdmin reports whether the caller carries the admin role.
func (c *Context) IsAdmin() bool {
	id, _ := c.Identity()
	return id.Role == auth.RoleAdmin
}

// ─── Per-request store ────────────────────────────────────────────────────────

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body. It answers 400 or 422 itself and
// returns false when dest is not usable.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	return c.settle(errs, err)
}

// BindMultipart parses a multipart body whose JSON payload sits in the named
// form field and validates it. Files stay available through c.Files.
// A plain JSON body is accepted too.
func (c *Context) BindMultipart(field string, maxMemory int64, dest any) bool {
	if !strings.HasPrefix(c.Header("Content-Type"), "multipart/") {
		return c.BindJSON(dest)
	}
	errs, err := bind.Multipart(c.R, field, maxMemory, dest)
	return c.settle(errs, err)
}

func (c *Context) settle(errs map[string]string, err error) bool {
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// Files returns the uploaded files under field, or nil.
func (c *Context) Files(field string) []*multipart.FileHeader {
	if c.R.MultipartForm == nil || c.R.MultipartForm.File == nil {
		return nil
	}
	return c.R.MultipartForm.File[field]
}

// Validate runs validation rules on an already-populated struct.
func (c *Context) Validate(v any) map[string]string {
	return validate.Struct(v)
}

// ─── Response ─────────────────────────────────────────────────────────────────

// recorder captures the status written through pkg/response.
type recorder struct {
	http.ResponseWriter
	c *Context
}

func (r recorder) WriteHeader(code int) {
	r.c.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (c *Context) out() http.ResponseWriter { return recorder{ResponseWriter: c.W, c: c} }

func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// JSON writes v as-is, without the envelope.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

func (c *Context) Success(data any) { response.Success(c.out(), data) }
func (c *Context) Created(data any) { response.Created(c.out(), data) }
func (c *Context) Message(msg string, data any) { response.Message(c.out(), msg, data) }
func (c *Context) Error(code int, message string) { response.Error(c.out(), code, message) }
func (c *Context) Paginated(data any, m response.Meta) { response.Paginated(c.out(), data, m) }

func (c *Context) ErrorWithData(code int, message string, data any) {
	response.ErrorWithData(c.out(), code, message, data)
}

func (c *Context) ValidationError(errs map[string]string) {
	response.ValidationError(c.out(), errs)
}

func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthorized"))
}

func (c *Context) Forbidden(message ...string) {
	c.Error(http.StatusForbidden, first(message, "Forbidden"))
}

func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// WrittenStatus is the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

func first(msgs []string, def string) string {
	if len(msgs) > 0 && msgs[0] != "" {
		return msgs[0]
	}
	return def
}
