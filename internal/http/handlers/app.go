package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"postforge/internal/pipeline"
	"postforge/internal/policystore"
)

// Pipeline is the orchestrator surface the handlers call. Both runs block
// until the full result is assembled.
type Pipeline interface {
	ImagePost(ctx context.Context, req pipeline.Request) pipeline.Result
	VideoPost(ctx context.Context, req pipeline.Request) pipeline.Result
}

type App struct {
	Pipeline Pipeline
	Policies policystore.Store
	// Pool is nil when policies come from a file or the built-ins.
	Pool          *pgxpool.Pool
	RenderEnabled bool
	Logger        zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, msg string) {
	a.json(w, code, map[string]string{"error": kind, "message": msg})
}
