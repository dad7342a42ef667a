package handlers

import (
	"context"
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"status":         "ok",
		"render_enabled": a.RenderEnabled,
	}
	if a.Pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Pool.Ping(ctx); err != nil {
			out["status"] = "degraded"
			out["database"] = "unreachable"
			a.json(w, http.StatusServiceUnavailable, out)
			return
		}
		out["database"] = "ok"
	}
	a.json(w, http.StatusOK, out)
}
