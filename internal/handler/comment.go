package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vybe/internal/httputil"
	"vybe/internal/model"
	"vybe/internal/service"
	"vybe/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Add(r.Context(), userID, postID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired), errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] AddComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to add comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	comments, err := h.commentService.List(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] ListComments handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, commentID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] DeleteComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted",
	})
}
