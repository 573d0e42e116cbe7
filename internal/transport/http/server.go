package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"vybe/internal/cache"
	"vybe/internal/config"
	"vybe/internal/database"
	"vybe/internal/handler"
	"vybe/internal/queue"
	appredis "vybe/internal/redis"
	"vybe/internal/repository"
	"vybe/internal/service"
	"vybe/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole application together and serves until interrupted.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(database.URL(cfg)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations applied")

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Connected to Redis successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	// Redis-backed infrastructure
	feedCache := cache.NewFeedCache(redisClient.Client)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// Services
	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, cfg.DefaultAvatarURL)
	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}
	relationshipService := service.NewRelationshipService(followRepo, userRepo, postRepo, storyRepo, publisher)
	postService := service.NewPostService(postRepo, userRepo, publisher)
	feedService := service.NewFeedService(postRepo, followRepo, userRepo, feedCache)
	storyService := service.NewStoryService(storyRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)

	// Handlers
	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService),
		UserHandler:    handler.NewUserHandler(userService, mediaService),
		FollowHandler:  handler.NewFollowHandler(relationshipService),
		PostHandler:    handler.NewPostHandler(postService, feedService, relationshipService, mediaService),
		StoryHandler:   handler.NewStoryHandler(storyService, relationshipService, mediaService),
		CommentHandler: handler.NewCommentHandler(commentService),
		JWTSecret:      cfg.JWTSecret,
	})

	// Feed fan-out workers
	workerHandler := worker.NewHandler(feedCache, followRepo, postRepo)
	workerManager := worker.NewManager(consumer, workerHandler, worker.ManagerConfig{})
	if err := workerManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		workerManager.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	workerManager.Stop()

	log.Println("Shutdown complete")
	return nil
}
