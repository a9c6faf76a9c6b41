// Package routes registers the storefront API.
package routes

import (
	"fmt"

	"github.com/shashiranjanraj/storefront/app/controllers"
	appgraphql "github.com/shashiranjanraj/storefront/app/graphql"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// RegisterAPI mounts every /api route on r.
func RegisterAPI(r *router.Router, svc *services.Services) error {
	authC := controllers.NewAuthController(svc)
	products := controllers.NewProductController(svc)
	taxonomy := controllers.NewTaxonomyController(svc)
	inventory := controllers.NewInventoryController(svc)
	orders := controllers.NewOrderController(svc)
	cart := controllers.NewCartController(svc)
	users := controllers.NewUserController(svc)

	h := ctx.Wrap
	admin := rbac.HasRole(auth.RoleAdmin)

	api := r.Group("/api")
	authed := api.Group("", middleware.Authenticate)
	staff := authed.Group("", admin)

	// Auth
	api.Post("/auth/register", "auth.register", h(authC.Register))
	api.Post("/auth/login", "auth.login", h(authC.Login))
	authed.Get("/auth/me", "auth.me", h(authC.Me))

	// Categories, colors, sizes
	api.Get("/categories", "categories.index", h(taxonomy.Categories))
	api.Get("/categories/{id}", "categories.show", h(taxonomy.Category))
	staff.Post("/categories", "categories.store", h(taxonomy.StoreCategory))
	staff.Put("/categories/{id}", "categories.update", h(taxonomy.UpdateCategory))
	staff.Delete("/categories/{id}", "categories.destroy", h(taxonomy.DestroyCategory))

	api.Get("/colors", "colors.index", h(taxonomy.Colors))
	staff.Post("/colors", "colors.store", h(taxonomy.StoreColor))
	staff.Put("/colors/{id}", "colors.update", h(taxonomy.UpdateColor))
	staff.Delete("/colors/{id}", "colors.destroy", h(taxonomy.DestroyColor))

	api.Get("/sizes", "sizes.index", h(taxonomy.Sizes))
	staff.Post("/sizes", "sizes.store", h(taxonomy.StoreSize))
	staff.Put("/sizes/{id}", "sizes.update", h(taxonomy.UpdateSize))
	staff.Delete("/sizes/{id}", "sizes.destroy", h(taxonomy.DestroySize))

	// Products
	api.Get("/products", "products.index", h(products.Index))
	api.Get("/products/category/{category}", "products.category", h(products.ByCategory))
	api.Get("/products/search/{keyword}", "products.search", h(products.Search))
	api.Get("/products/{id}", "products.show", h(products.Show))
	api.Get("/products/{id}/similar", "products.similar", h(products.Similar))
	api.Get("/products/{id}/variant", "products.variant", h(products.Variant))
	staff.Post("/products", "products.store", h(products.Store))
	staff.Put("/products/{id}", "products.update", h(products.Update))
	staff.Delete("/products/{id}", "products.destroy", h(products.Destroy))

	// Inventory
	stock := staff.Group("/inventory")
	stock.Post("/add", "inventory.add", h(inventory.Add))
	stock.Post("/remove", "inventory.remove", h(inventory.Remove))
	stock.Post("/adjust", "inventory.adjust", h(inventory.Adjust))
	stock.Get("/product/{id}", "inventory.product", h(inventory.ByProduct))
	stock.Get("/product/{id}/reconcile", "inventory.reconcile", h(inventory.Reconcile))
	stock.Get("/", "inventory.index", h(inventory.Index))
	stock.Put("/{id}", "inventory.update", h(inventory.Update))
	stock.Delete("/{id}", "inventory.destroy", h(inventory.Destroy))

	// Orders
	authed.Post("/orders", "orders.store", h(orders.Store))
	authed.Get("/orders/mine", "orders.mine", h(orders.Mine))
	authed.Get("/orders/{id}", "orders.show", h(orders.Show))
	staff.Post("/orders/admin/place-order", "orders.admin.place", h(orders.AdminPlace))
	staff.Get("/orders", "orders.index", h(orders.Index))
	staff.Put("/orders/{id}/status", "orders.status", h(orders.UpdateStatus))

	// Cart
	basket := authed.Group("/cart")
	basket.Get("/", "cart.show", h(cart.Show))
	basket.Post("/items", "cart.add", h(cart.Add))
	basket.Delete("/items/{variantId}", "cart.remove", h(cart.Remove))
	basket.Delete("/", "cart.clear", h(cart.Clear))
	basket.Post("/checkout", "cart.checkout", h(cart.Checkout))

	// Users
	people := staff.Group("/users")
	people.Get("/", "users.index", h(users.Index))
	people.Get("/{id}", "users.show", h(users.Show))
	people.Post("/", "users.store", h(users.Store))
	people.Put("/{id}", "users.update", h(users.Update))
	people.Delete("/{id}", "users.destroy", h(users.Destroy))

	// Catalog GraphQL
	schema, err := appgraphql.NewSchema(svc)
	if err != nil {
		return fmt.Errorf("graphql schema: %w", err)
	}
	api.Post("/graphql", "graphql", graphql.Handler(schema))
	return nil
}
