package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/socialhub/internal/config"
	"anoa.com/socialhub/internal/middleware"

	activityHttp "anoa.com/socialhub/internal/modules/activity/delivery/http"
	activityService "anoa.com/socialhub/internal/modules/activity/service"

	chatHttp "anoa.com/socialhub/internal/modules/chat/delivery/http"
	chatRepo "anoa.com/socialhub/internal/modules/chat/repository"
	chatService "anoa.com/socialhub/internal/modules/chat/service"

	contentRepo "anoa.com/socialhub/internal/modules/content/repository"

	notiHttp "anoa.com/socialhub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/socialhub/internal/modules/notification/repository"
	notifService "anoa.com/socialhub/internal/modules/notification/service"

	presenceHttp "anoa.com/socialhub/internal/modules/presence/delivery/http"
	presenceWs "anoa.com/socialhub/internal/modules/presence/delivery/ws"
	"anoa.com/socialhub/internal/modules/presence/gateway"
	"anoa.com/socialhub/internal/modules/presence/registry"
	presenceService "anoa.com/socialhub/internal/modules/presence/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	registry   *registry.Registry
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	storyPolicy, err := notifService.ParseDeletedPolicy(cfg.StoryLikeDeletedPolicy)
	if err != nil {
		return nil, err
	}

	// Realtime core
	connections := registry.New()
	pusher := gateway.New(connections)
	presenceSvc := presenceService.NewPresenceService(redisClient, connections, cfg.PresenceTTL)
	presenceHandler := presenceHttp.NewPresenceHandler(presenceSvc, connections)

	contentRepository := contentRepo.NewContentRepository(db)

	// Chat Module
	messageRepository := chatRepo.NewMessageRepository(db)
	chatSvc := chatService.NewChatService(messageRepository, pusher, redisClient, cfg.RateLimitMessage)
	chatHandler := chatHttp.NewChatHandler(chatSvc)

	wsHandler := presenceWs.NewHandler(connections, presenceSvc, chatSvc, presenceWs.Options{
		PingInterval: cfg.WSPingInterval,
		WriteTimeout: cfg.WSWriteTimeout,
	})

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, contentRepository, notifService.Options{
		StoryDeletedPolicy: storyPolicy,
	})
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc)

	activitySvc := activityService.NewActivityService(notificationSvc, contentRepository, pusher)
	activityHandler := activityHttp.NewActivityHandler(activitySvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	router.GET("/health", presenceHandler.Health)

	api := router.Group("/api")

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Realtime
		protected.GET("/ws", wsHandler.HandleWebSocket)
		protected.GET("/presence/:user_id", presenceHandler.GetPresence)

		// Chat routes
		protected.POST("/chats/:chat_id/messages", chatHandler.SendMessage)
		protected.GET("/chats/:chat_id/messages", chatHandler.ListMessages)

		// Notification routes
		protected.GET("/notifications", notificationHandler.ListNotifications)

		// Activity routes, called after the CRUD layer has written the row
		activities := protected.Group("/activities")
		{
			activities.POST("/likes/:like_id", activityHandler.LikePost)
			activities.DELETE("/likes/:like_id", activityHandler.LikePost)
			activities.POST("/comments/:comment_id", activityHandler.CommentPost)
			activities.POST("/follow-requests/:request_id/:transition", activityHandler.FollowRequest)
			activities.POST("/stories/:story_id/like", activityHandler.LikeStory)
			activities.DELETE("/stories/:story_id/like", activityHandler.LikeStory)
		}
	}

	return &Server{
		engine:     router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		registry: connections,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	log.Printf("[server] listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes every live websocket.
// Hijacked connections are not tracked by http.Server, so they are closed here.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	channels := s.registry.Shutdown()
	for _, ch := range channels {
		_ = ch.Close()
	}
	log.Printf("[server] closed %d realtime connections", len(channels))

	return err
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
