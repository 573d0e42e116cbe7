package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vybe/internal/httputil"
	"vybe/internal/model"
	"vybe/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// SignUp creates the account and signs the caller in immediately.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.SignUp(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFieldsRequired):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrEmailExists), errors.Is(err, model.ErrUserNameExists):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] SignUp handler: %v", err)
			httputil.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("[ERROR] SignUp handler: sign token: %v", err)
		httputil.WriteInternalError(w, "Failed to create session")
		return
	}
	http.SetCookie(w, h.authService.SessionCookie(token))

	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.SignIn(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, err.Error())
			return
		}
		log.Printf("[ERROR] SignIn handler: %v", err)
		httputil.WriteInternalError(w, "Failed to sign in")
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("[ERROR] SignIn handler: sign token: %v", err)
		httputil.WriteInternalError(w, "Failed to create session")
		return
	}
	http.SetCookie(w, h.authService.SessionCookie(token))

	httputil.WriteJSON(w, http.StatusOK, user)
}

// SignOut clears the session cookie.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.authService.ExpiredSessionCookie())
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Signed out",
	})
}
