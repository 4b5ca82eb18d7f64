package controllers

import (
	"context"
	"net/http"

	"github.com/yeezuz2020/store-api/api/responses"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive answers liveness probes without touching any dependency.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers readiness probes by pinging the database and redis.
func HealthReady(db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
