package handlers

import (
	"net/http"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/middleware"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, admin, err := h.authService.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"token": token, "admin": admin}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetAdminIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), adminID, input.CurrentPassword, input.NewPassword); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string           `json:"username"`
		Password string           `json:"password"`
		Role     models.AdminRole `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Role == "" {
		input.Role = models.RoleOperator
	}

	admin, err := h.authService.CreateAdmin(r.Context(), input.Username, input.Password, input.Role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"admin": admin}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
