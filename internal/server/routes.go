package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inv_checker/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/valuation", handler(s.getV1Valuation))
			r.Get("/items/{name}/price", handler(s.getV1ItemPrice))
			r.Post("/refresh", handler(s.postV1Refresh))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
