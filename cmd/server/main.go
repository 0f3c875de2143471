package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rblog/rblog/internal/config"
	"github.com/rblog/rblog/internal/database"
	"github.com/rblog/rblog/internal/handler"
	"github.com/rblog/rblog/internal/mailer"
	"github.com/rblog/rblog/internal/middleware"
	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/internal/service"
	"github.com/rblog/rblog/internal/token"
	"github.com/rblog/rblog/pkg/logger"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()
	if err := database.SeedRoles(database.DB); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	roleRepo := repository.NewRoleRepository(database.DB)
	followRepo := repository.NewFollowRepository(database.DB)
	postRepo := repository.NewPostRepository(database.DB)
	commentRepo := repository.NewCommentRepository(database.DB)

	// Token codec for the confirmation / reset / email-change flows
	codec := token.NewCodec(cfg.SecretKey)

	// Outbound mail: real SMTP in production, log-only elsewhere
	var mail mailer.Mailer
	if cfg.Environment == "production" {
		mail = mailer.NewSMTPMailer(cfg)
	} else {
		mail = mailer.NewLogMailer()
	}

	// Services
	authService := service.NewAuthService(userRepo, roleRepo, followRepo, codec, mail, cfg)
	userService := service.NewUserService(userRepo, roleRepo)
	postService := service.NewPostService(postRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	followService := service.NewFollowService(followRepo, userRepo)
	moderationService := service.NewModerationService(postRepo, commentRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, cfg.UsersPerPage)
	postHandler := handler.NewPostHandler(postService, cfg.PostsPerPage)
	commentHandler := handler.NewCommentHandler(commentService, cfg.CommentsPerPage)
	followHandler := handler.NewFollowHandler(followService, cfg.FollowsPerPage)
	moderationHandler := handler.NewModerationHandler(moderationService, cfg.PostsPerPage, cfg.CommentsPerPage)

	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.Default())

	// Auth routes get rate limiting when Redis is configured
	authRoutes := router.Group("/api/auth")
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		limiter := middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
			BlockTime:   cfg.RateLimitBlockTime,
		})
		authRoutes.Use(limiter.Middleware())
	}

	// Public auth
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)

	// Public content
	router.GET("/api/posts", postHandler.List)
	router.GET("/api/posts/:id", postHandler.Get)
	router.GET("/api/posts/:id/comments", commentHandler.ListByPost)
	router.GET("/api/users/:username", userHandler.Profile)
	router.GET("/api/users/:username/posts", postHandler.ListByUser)
	router.GET("/api/users/:username/followers", followHandler.Followers)
	router.GET("/api/users/:username/following", followHandler.Following)

	// Signed-in routes; account flows stay reachable while unconfirmed
	auth := router.Group("/api")
	auth.Use(middleware.AuthMiddleware(cfg.JWTSecret, userRepo))
	{
		auth.POST("/auth/logout", authHandler.Logout)
		auth.POST("/auth/confirm", authHandler.Confirm)
		auth.POST("/auth/confirm/resend", authHandler.ResendConfirmation)
		auth.POST("/auth/change-password", authHandler.ChangePassword)
		auth.POST("/auth/change-username", authHandler.ChangeUsername)
		auth.POST("/auth/change-email/request", authHandler.RequestEmailChange)
		auth.POST("/auth/change-email", authHandler.ChangeEmail)
		auth.GET("/me", userHandler.Me)
		auth.PUT("/me/profile", userHandler.UpdateProfile)
	}

	// Content mutation requires a confirmed account
	confirmed := router.Group("/api")
	confirmed.Use(middleware.AuthMiddleware(cfg.JWTSecret, userRepo), middleware.RequireConfirmed())
	{
		confirmed.GET("/feed", postHandler.Feed)
		confirmed.POST("/posts",
			middleware.RequirePermission(models.PermWriteArticles), postHandler.Create)
		confirmed.PUT("/posts/:id", postHandler.Update)
		confirmed.DELETE("/posts/:id", postHandler.Delete)
		confirmed.POST("/posts/:id/comments",
			middleware.RequirePermission(models.PermComment), commentHandler.Create)
		confirmed.DELETE("/comments/:id", commentHandler.Delete)
		confirmed.POST("/users/:username/follow",
			middleware.RequirePermission(models.PermFollow), followHandler.Follow)
		confirmed.POST("/users/:username/unfollow",
			middleware.RequirePermission(models.PermFollow), followHandler.Unfollow)
	}

	// Moderation queues and toggles
	moderate := router.Group("/api/moderation")
	moderate.Use(
		middleware.AuthMiddleware(cfg.JWTSecret, userRepo),
		middleware.RequirePermission(models.PermModerate),
	)
	{
		moderate.GET("/posts", moderationHandler.ListPosts)
		moderate.GET("/comments", moderationHandler.ListComments)
		moderate.PATCH("/posts/:id/enable", moderationHandler.EnablePost)
		moderate.PATCH("/posts/:id/disable", moderationHandler.DisablePost)
		moderate.PATCH("/comments/:id/enable", moderationHandler.EnableComment)
		moderate.PATCH("/comments/:id/disable", moderationHandler.DisableComment)
	}

	// Administration
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg.JWTSecret, userRepo),
		middleware.RequireAdmin(),
	)
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.PUT("/users/:id", userHandler.AdminUpdateUser)
		admin.GET("/roles", userHandler.ListRoles)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
