package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/store"
	"github.com/dukerupert/larder/internal/validate"
)

// AccountHandler serves the caller's own account: profile reads and
// updates, password change, and deletion.
type AccountHandler struct {
	svc    *auth.Service
	users  *store.UserStore
	logger *slog.Logger
}

func NewAccountHandler(svc *auth.Service, users *store.UserStore, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, users: users, logger: logger}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return
	}
	user, err := h.users.GetByID(ac.UserID)
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeAuthError(w, err)
		return
	}
	if user == nil {
		writeAuthError(w, auth.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result := validate.Check(
		validate.Username("username", req.Username),
		validate.Email("email", req.Email),
	)
	if !result.OK() {
		writeValidationErrors(w, result)
		return
	}

	taken, err := h.users.UsernameOrEmailExists(req.Username, req.Email, ac.UserID)
	if err != nil {
		h.logger.Error("check username/email", "error", err)
		writeAuthError(w, err)
		return
	}
	if taken {
		writeAuthError(w, auth.ErrConflict)
		return
	}

	user, err := h.users.Update(ac.UserID, req.Username, req.Email)
	if err != nil {
		h.logger.Error("update user", "error", err)
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result := validate.Check(validate.Password("new_password", req.NewPassword))
	if !result.OK() {
		writeValidationErrors(w, result)
		return
	}

	if err := h.svc.ChangePassword(ac.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteMeRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DeleteMe requires the caller to retype their username, email, and
// password. Owned data cascades in the database.
func (h *AccountHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return
	}

	var req deleteMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.svc.DeleteAccount(ac, req.Username, req.Email, req.Password); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
