package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kdquach/thetrois-backend/api/responses"
	"github.com/kdquach/thetrois-backend/pkg/config"
	"github.com/kdquach/thetrois-backend/pkg/logger"
)

const envHeader = "X-TheTrois-Env"

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{"storage": "skipped"}
		healthy := true

		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				checks["storage"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.storage_unreachable", err)
				}
			} else {
				checks["storage"] = "ok"
			}
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
