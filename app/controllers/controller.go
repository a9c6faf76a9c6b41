// Package controllers adapts HTTP requests to service calls and service
// errors to response envelopes.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// maxFormMemory bounds the in-memory part of a multipart body.
const maxFormMemory = 32 << 20

// fail answers err with the status its type maps to. Unclassified errors
// are logged and reported as a generic 500.
func fail(c *ctx.Context, err error) {
	var (
		ve   *services.ValidationError
		ive  *services.InvalidVariantError
		nf   *services.NotFoundError
		oos  *services.OutOfStockError
		ise  *services.InsufficientStockError
		conf *services.ConflictError
		ae   *services.AuthError
	)
	switch {
	case errors.As(err, &ve):
		c.ValidationError(ve.Fields)
	case errors.As(err, &ive):
		c.ErrorWithData(http.StatusUnprocessableEntity, ive.Error(), map[string]string{
			"productId": ive.ProductID,
			"reason":    ive.Reason,
		})
	case errors.As(err, &nf):
		c.NotFound(capitalize(nf.Error()))
	case errors.As(err, &oos):
		c.ErrorWithData(http.StatusConflict, "Some items are out of stock", map[string]any{"items": oos.Items})
	case errors.As(err, &ise):
		c.ErrorWithData(http.StatusConflict, "Insufficient stock", services.Shortage{
			ProductID: ise.ProductID,
			VariantID: ise.VariantID,
			Requested: ise.Requested,
			Available: ise.Available,
		})
	case errors.As(err, &conf):
		c.Error(http.StatusConflict, conf.Message)
	case errors.As(err, &ae):
		if ae.Forbidden {
			c.Forbidden(ae.Message)
			return
		}
		c.Unauthorized(ae.Message)
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// page reads ?page= and ?limit= with the service defaults.
func page(c *ctx.Context) (p, limit int) {
	pg := services.PageOf(c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultLimit))
	return pg.Page, pg.Limit
}

func paginated(c *ctx.Context, data any, total int64, p, limit int) {
	c.Paginated(data, response.NewMeta(total, p, limit))
}
