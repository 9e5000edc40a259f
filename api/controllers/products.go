package controllers

import (
	"net/http"

	"github.com/arvellum/storefront/api/responses"
	catalogsvc "github.com/arvellum/storefront/internal/catalog"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/arvellum/storefront/pkg/logger"
)

// ListProducts serves the full catalog as a bare JSON array.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, products)
	}
}
