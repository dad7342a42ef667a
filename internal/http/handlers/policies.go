package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"postforge/internal/domain"
)

func (a *App) PolicyGet(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner_id")
	if ownerID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "owner_id required")
		return
	}
	policy, err := a.Policies.GetPolicy(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no style policy for owner")
			return
		}
		a.Logger.Error().Err(err).Str("owner_id", ownerID).Msg("policy lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch policy")
		return
	}
	a.json(w, http.StatusOK, policy)
}
