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

type StoryHandler struct {
	storyService        *service.StoryService
	relationshipService *service.RelationshipService
	mediaService        *service.MediaService
}

func NewStoryHandler(
	storyService *service.StoryService,
	relationshipService *service.RelationshipService,
	mediaService *service.MediaService,
) *StoryHandler {
	return &StoryHandler{
		storyService:        storyService,
		relationshipService: relationshipService,
		mediaService:        mediaService,
	}
}

// Create posts a story from a multipart form with a single media file.
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	result, mediaType, err := h.mediaService.UploadPostMedia(r.Context(), file, header, model.StoryMediaFolder)
	if err != nil {
		writeUploadError(w, "CreateStory", err)
		return
	}

	story, err := h.storyService.Create(r.Context(), userID, result, mediaType)
	if err != nil {
		if delErr := h.mediaService.DeleteObject(r.Context(), result.Key); delErr != nil {
			log.Printf("[WARN] CreateStory handler: cleanup %s: %v", result.Key, delErr)
		}
		log.Printf("[ERROR] CreateStory handler: %v", err)
		httputil.WriteInternalError(w, "Failed to create story")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, story)
}

// GetAll returns every active story grouped by author.
func (h *StoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	groups, err := h.storyService.GetAll(r.Context())
	if err != nil {
		log.Printf("[ERROR] GetAllStories handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch stories")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, groups)
}

// GetMine returns the caller's active stories with viewer lists.
func (h *StoryHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	stories, err := h.storyService.GetMine(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetMyStories handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch stories")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stories)
}

// GetByUser returns one user's active stories.
func (h *StoryHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	stories, err := h.storyService.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] GetUserStories handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch stories")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stories)
}

// View marks the story as seen by the caller and returns the story.
func (h *StoryHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	storyID, err := strconv.ParseInt(chi.URLParam(r, "storyId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid story ID")
		return
	}

	story, err := h.relationshipService.MarkStoryViewed(r.Context(), userID, storyID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrStoryNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrStoryExpired):
			httputil.WriteBadRequest(w, err.Error())
		default:
			log.Printf("[ERROR] ViewStory handler: %v", err)
			httputil.WriteInternalError(w, "Failed to record story view")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, story)
}
