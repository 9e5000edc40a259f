package controllers

import (
	"net/http"

	"github.com/arvellum/storefront/api/responses"
	discountsvc "github.com/arvellum/storefront/internal/discounts"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/arvellum/storefront/pkg/logger"
)

// ListDiscounts serves the full valid discount set. Clients match entered
// codes against this list locally.
func ListDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		discounts, err := svc.ListDiscounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, discounts)
	}
}
