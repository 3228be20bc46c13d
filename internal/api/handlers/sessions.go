package handlers

import (
	"dispatch-compliance-service/internal/api/dto"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/ports"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type SessionHandler struct {
	Sessions ports.SessionStore
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Put("/sessions/{sessionID}/tier", h.SetTier)
	r.Get("/sessions/{sessionID}/entitlements", h.Entitlements)
}

func (h *SessionHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.SetTierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tier, err := domain.ParseTier(req.Tier)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sess, err := h.Sessions.GetSession(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sess.Tier = tier
	if err := h.Sessions.SaveSession(ctx, sess); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(ctx, "tier changed",
		"req_id", middleware.GetReqID(ctx),
		"session_id", sess.ID,
		"tier", tier,
	)
	writeJSON(w, r, http.StatusOK, dto.FromSession(sess))
}

func (h *SessionHandler) Entitlements(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromSession(sess))
}
