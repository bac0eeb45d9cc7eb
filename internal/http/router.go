package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sbenali/autostock/internal/auth"
	"github.com/sbenali/autostock/internal/http/account"
	"github.com/sbenali/autostock/internal/http/directory"
	"github.com/sbenali/autostock/internal/http/importcsv"
	"github.com/sbenali/autostock/internal/http/movement"
	"github.com/sbenali/autostock/internal/http/product"
	"github.com/sbenali/autostock/internal/http/purchase"
	"github.com/sbenali/autostock/internal/http/sale"
	"github.com/sbenali/autostock/internal/http/session"
	"github.com/sbenali/autostock/internal/http/snapshot"
	"github.com/sbenali/autostock/internal/http/user"
)

func New(
	authSvc *auth.Service,
	allowedOrigins []string,
	sessionV1 *session.Handler,
	productsV1 *product.Handler,
	directoryV1 *directory.Handler,
	purchasesV1 *purchase.Handler,
	salesV1 *sale.Handler,
	movementsV1 *movement.Handler,
	accountsV1 *account.Handler,
	usersV1 *user.Handler,
	importV1 *importcsv.Handler,
	snapshotV1 *snapshot.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			sessionV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(authSvc))

			r.Route("/products", func(r chi.Router) {
				r.Use(RequirePermission("products"))
				productsV1.Routes(r)
			})

			r.Route("/clients", func(r chi.Router) {
				r.Use(RequirePermission("clients"))
				directoryV1.ClientRoutes(r)
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Use(RequirePermission("suppliers"))
				directoryV1.SupplierRoutes(r)
			})

			r.Route("/purchases", func(r chi.Router) {
				r.Use(RequirePermission("purchases"))
				purchasesV1.Routes(r)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Use(RequirePermission("sales"))
				salesV1.Routes(r)
			})

			r.Route("/movements", func(r chi.Router) {
				r.Use(RequirePermission("movements"))
				movementsV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequirePermission("treasury"))
				r.Route("/accounts", accountsV1.Routes)
				r.Get("/transfers", accountsV1.ListTransfers)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(RequireAdmin)
				usersV1.Routes(r)
			})

			r.Route("/import", func(r chi.Router) {
				r.Use(RequirePermission("settings"))
				importV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequirePermission("settings"))
				r.Get("/export", snapshotV1.Export)
				r.Route("/snapshot", snapshotV1.Routes)
			})
		})
	})

	return router
}
