package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authsvc "github.com/mlipski/salesledger/internal/auth"
	"github.com/mlipski/salesledger/internal/http/auth"
	"github.com/mlipski/salesledger/internal/http/health"
	"github.com/mlipski/salesledger/internal/http/importcsv"
	"github.com/mlipski/salesledger/internal/http/report"
	"github.com/mlipski/salesledger/internal/http/transaction"
)

func New(
	authService *authsvc.Service,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	reportsV1 *report.Handler,
	authV1 *auth.Handler,
	healthV1 *health.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/health", healthV1.Routes)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authService.Middleware)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/import", importV1.Routes)

			r.Route("/reports", reportsV1.Routes)
		})
	})

	return router
}
