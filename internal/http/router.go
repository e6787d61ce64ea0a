package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	accountHandler "github.com/MrJamesThe3rd/cuenta/internal/http/account"
	"github.com/MrJamesThe3rd/cuenta/internal/http/auth"
	categoryHandler "github.com/MrJamesThe3rd/cuenta/internal/http/category"
	goalHandler "github.com/MrJamesThe3rd/cuenta/internal/http/goal"
	transactionHandler "github.com/MrJamesThe3rd/cuenta/internal/http/transaction"
)

func New(
	authSecret string,
	transactionsV1 *transactionHandler.Handler,
	accountsV1 *accountHandler.Handler,
	goalsV1 *goalHandler.Handler,
	categoriesV1 *categoryHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(authSecret))

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			goalsV1.Routes(r)
		})

		r.Route("/categories", categoriesV1.Routes)
	})

	return router
}
