package handler

import (
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

type PostHandler struct {
	postService         *service.PostService
	feedService         *service.FeedService
	relationshipService *service.RelationshipService
	mediaService        *service.MediaService
}

func NewPostHandler(
	postService *service.PostService,
	feedService *service.FeedService,
	relationshipService *service.RelationshipService,
	mediaService *service.MediaService,
) *PostHandler {
	return &PostHandler{
		postService:         postService,
		feedService:         feedService,
		relationshipService: relationshipService,
		mediaService:        mediaService,
	}
}

// UploadPost creates a post from a multipart form: media (file, required)
// and caption (optional).
func (h *PostHandler) UploadPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		httputil.WriteBadRequest(w, model.ErrNoMediaProvided.Error())
		return
	}
	defer file.Close()

	result, mediaType, err := h.mediaService.UploadPostMedia(r.Context(), file, header, model.PostMediaFolder)
	if err != nil {
		writeUploadError(w, "UploadPost", err)
		return
	}

	caption := r.FormValue("caption")
	post, err := h.postService.Create(r.Context(), userID, caption, result, mediaType)
	if err != nil {
		// The object is already in the bucket; drop it so a rejected post
		// leaves nothing behind
		if delErr := h.mediaService.DeleteObject(r.Context(), result.Key); delErr != nil {
			log.Printf("[WARN] UploadPost handler: cleanup %s: %v", result.Key, delErr)
		}
		switch {
		case errors.Is(err, model.ErrCaptionTooLong), errors.Is(err, model.ErrInvalidMediaType):
			httputil.WriteBadRequest(w, err.Error())
		default:
			log.Printf("[ERROR] UploadPost handler: %v", err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// GetAllPosts returns the caller's timeline: their own posts and the posts
// of everyone they follow, newest first.
func (h *PostHandler) GetAllPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	posts, err := h.feedService.GetFeed(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetAllPosts handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Like toggles the caller's like on the post and returns the updated post.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.relationshipService.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] Like handler: %v", err)
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}
