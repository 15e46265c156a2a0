package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dinehall-order-service/internal/middleware"
	"dinehall-order-service/pkg/response"
)

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readPathUUID(r *http.Request, key string) (uuid.UUID, bool) {
	value := readPathString(r, key)
	id, err := uuid.Parse(value)
	return id, err == nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return false
	}
	return true
}

func actorID(r *http.Request) string {
	if ac, ok := middleware.GetAuthContext(r.Context()); ok {
		return ac.UserID
	}
	return ""
}
