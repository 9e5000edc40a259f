package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/arvellum/storefront/api/responses"
	"github.com/arvellum/storefront/pkg/config"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/arvellum/storefront/pkg/db"
	"github.com/arvellum/storefront/pkg/logger"
	"github.com/arvellum/storefront/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency and aggregates failures. A nil
// redis pinger (cache disabled) is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var errs []error
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				errs = append(errs, err)
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				errs = append(errs, err)
			}
		}

		if combined := multierr.Combine(errs...); combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed"))
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
