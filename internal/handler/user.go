package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vybe/internal/httputil"
	"vybe/internal/model"
	"vybe/internal/service"
	"vybe/internal/transport/http/middleware"
)

// maxMultipartMemory bounds the in-memory part of multipart parsing;
// larger uploads spill to temp files.
const maxMultipartMemory = 32 << 20

type UserHandler struct {
	userService  *service.UserService
	mediaService *service.MediaService
}

func NewUserHandler(userService *service.UserService, mediaService *service.MediaService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		mediaService: mediaService,
	}
}

// Current returns the authenticated caller's own record.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] Current handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userName := chi.URLParam(r, "userName")
	if userName == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userName)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] GetProfile handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// EditProfile updates the caller's profile fields and optionally replaces
// the avatar. Multipart form: name, user_name, bio, avatar (file).
func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	req := &model.EditProfileRequest{}
	if values, ok := r.MultipartForm.Value["name"]; ok && len(values) > 0 {
		req.Name = &values[0]
	}
	if values, ok := r.MultipartForm.Value["user_name"]; ok && len(values) > 0 {
		req.UserName = &values[0]
	}
	if values, ok := r.MultipartForm.Value["bio"]; ok && len(values) > 0 {
		req.Bio = &values[0]
	}

	// Remember the old avatar key so the object can be cleaned up after a
	// successful replacement
	var oldAvatarKey string
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()

		current, err := h.userService.GetByID(r.Context(), userID)
		if err == nil && current.AvatarKey != nil {
			oldAvatarKey = *current.AvatarKey
		}

		result, err := h.mediaService.UploadAvatar(r.Context(), file, header)
		if err != nil {
			writeUploadError(w, "EditProfile", err)
			return
		}
		req.AvatarURL = &result.URL
		req.AvatarKey = &result.Key
	}

	user, err := h.userService.EditProfile(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNameExists):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] EditProfile handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	if req.AvatarKey != nil && oldAvatarKey != "" {
		if err := h.mediaService.DeleteObject(r.Context(), oldAvatarKey); err != nil {
			log.Printf("[WARN] EditProfile handler: delete old avatar %s: %v", oldAvatarKey, err)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Suggested returns users the caller might want to follow.
func (h *UserHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	users, err := h.userService.Suggested(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Suggested handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch suggested users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, users)
}

// writeUploadError maps media validation failures to 400s with a stable
// error code and everything else to a 500.
func writeUploadError(w http.ResponseWriter, where string, err error) {
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, err.Error())
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidMediaType, err.Error())
	default:
		log.Printf("[ERROR] %s handler: upload: %v", where, err)
		httputil.WriteInternalError(w, "Failed to upload media")
	}
}
