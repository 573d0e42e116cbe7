package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vybe/internal/handler"
	"vybe/internal/httputil"
	authmw "vybe/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	FollowHandler  *handler.FollowHandler
	PostHandler    *handler.PostHandler
	StoryHandler   *handler.StoryHandler
	CommentHandler *handler.CommentHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		auth := authmw.AuthMiddleware(cfg.JWTSecret)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", cfg.AuthHandler.SignUp)
			r.Post("/signin", cfg.AuthHandler.SignIn)
			r.With(auth).Post("/signout", cfg.AuthHandler.SignOut)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/getprofile/{userName}", cfg.UserHandler.GetProfile)
			r.With(auth).Get("/current", cfg.UserHandler.Current)
			r.With(auth).Post("/editprofile", cfg.UserHandler.EditProfile)
			r.With(auth).Get("/suggested", cfg.UserHandler.Suggested)
		})

		r.Route("/post", func(r chi.Router) {
			r.Use(auth)
			r.Post("/uploadPost", cfg.PostHandler.UploadPost)
			r.Get("/getAllPosts", cfg.PostHandler.GetAllPosts)
			r.Post("/like/{postId}", cfg.PostHandler.Like)
		})

		r.Route("/follow", func(r chi.Router) {
			r.Use(auth)
			r.Post("/{userId}", cfg.FollowHandler.Follow)
			r.Post("/unfollow/{userId}", cfg.FollowHandler.Unfollow)
			r.Get("/status/{userId}", cfg.FollowHandler.Status)
		})

		r.Route("/story", func(r chi.Router) {
			r.Use(auth)
			r.Post("/create", cfg.StoryHandler.Create)
			r.Get("/all", cfg.StoryHandler.GetAll)
			r.Get("/my-stories", cfg.StoryHandler.GetMine)
			r.Get("/user/{userId}", cfg.StoryHandler.GetByUser)
			r.Post("/view/{storyId}", cfg.StoryHandler.View)
		})

		// GET/POST take a post ID, DELETE takes a comment ID; chi requires
		// one wildcard name per position
		r.Route("/comment", func(r chi.Router) {
			r.Get("/{id}", cfg.CommentHandler.List)
			r.With(auth).Post("/{id}", cfg.CommentHandler.Add)
			r.With(auth).Delete("/{id}", cfg.CommentHandler.Delete)
		})
	})

	return r
}
