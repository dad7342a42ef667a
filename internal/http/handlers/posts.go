package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"postforge/internal/middleware"
	"postforge/internal/pipeline"
)

type postRequest struct {
	OwnerID        string `json:"owner_id"`
	Topic          string `json:"topic"`
	Notes          string `json:"notes,omitempty"`
	Aspect         string `json:"aspect,omitempty"`
	WantDisclaimer bool   `json:"want_disclaimer,omitempty"`
	VoiceID        string `json:"voice_id,omitempty"`
	EnhancedPrompt string `json:"enhanced_prompt,omitempty"`
	StyleRequest   string `json:"style_request,omitempty"`
}

func (a *App) decodePostRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return pipeline.Request{}, false
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "owner_id required")
		return pipeline.Request{}, false
	}
	if strings.TrimSpace(req.Topic) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "topic required")
		return pipeline.Request{}, false
	}
	return pipeline.Request{
		OwnerID:        strings.TrimSpace(req.OwnerID),
		Topic:          strings.TrimSpace(req.Topic),
		Notes:          req.Notes,
		Aspect:         req.Aspect,
		WantDisclaimer: req.WantDisclaimer,
		VoiceID:        req.VoiceID,
		EnhancedPrompt: req.EnhancedPrompt,
		StyleRequest:   req.StyleRequest,
	}, true
}

// writeRunResult maps a pipeline result onto the wire. Degraded runs are
// still 200s: the errors list tells the caller which stages fell back.
func (a *App) writeRunResult(w http.ResponseWriter, res pipeline.Result) {
	if !res.Success {
		a.json(w, http.StatusUnprocessableEntity, res)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) PostsImage(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodePostRequest(w, r)
	if !ok {
		return
	}
	res := a.Pipeline.ImagePost(r.Context(), req)
	a.Logger.Info().
		Str("run_id", res.RunID).
		Str("owner_id", req.OwnerID).
		Str("locale", middleware.LocaleFromContext(r.Context())).
		Bool("success", res.Success).
		Bool("used_fallback", res.UsedFallback).
		Int("errors", len(res.Errors)).
		Msg("image post run")
	a.writeRunResult(w, res)
}

func (a *App) PostsVideo(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodePostRequest(w, r)
	if !ok {
		return
	}
	res := a.Pipeline.VideoPost(r.Context(), req)
	a.Logger.Info().
		Str("run_id", res.RunID).
		Str("owner_id", req.OwnerID).
		Str("locale", middleware.LocaleFromContext(r.Context())).
		Bool("success", res.Success).
		Bool("used_fallback", res.UsedFallback).
		Int("errors", len(res.Errors)).
		Msg("video post run")
	a.writeRunResult(w, res)
}
