package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"dinehall-order-service/internal/auth"
	"dinehall-order-service/internal/middleware"
	"dinehall-order-service/pkg/response"
)

// GuestSessionCreate mints a guest token for a shared ordering device at the
// table. Staff only; the returned session id keys the device's cart.
func (h *Handler) GuestSessionCreate(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.GetAuthContext(r.Context())
	if !ok || ac.Role == auth.RoleGuest {
		response.Error(w, http.StatusForbidden, "FORBIDDEN", "Staff access required")
		return
	}

	var req struct {
		DeviceName string `json:"deviceName"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	sessionID := uuid.NewString()
	token, err := auth.IssueAccessToken(sessionID, auth.RoleGuest, req.DeviceName, h.Config.JWTSecret, h.Config.JWTExpirySeconds)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data": map[string]any{
			"sessionId": sessionID,
			"token":     token,
			"expiresIn": h.Config.JWTExpirySeconds,
		},
	})
}
