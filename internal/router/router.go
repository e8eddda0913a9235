package router

import (
	"murmur/internal/config"
	"murmur/internal/handlers"
	"murmur/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes wires every handler onto the engine. db.Init must
// have run before this is called.
func RegisterRoutes(r *gin.Engine, cfg config.AppConfig, logger *zap.Logger) {
	authHandler := handlers.NewAuthHandler(cfg, logger)
	userHandler := handlers.NewUserHandler(cfg)
	postHandler := handlers.NewPostHandler(cfg)
	voteHandler := handlers.NewVoteHandler()
	messageHandler := handlers.NewMessageHandler(cfg)
	notificationHandler := handlers.NewNotificationHandler()
	communityHandler := handlers.NewCommunityHandler(cfg)

	// Public routes
	r.POST("/signup", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.POST("/reset_password_request", authHandler.RequestPasswordReset)
	r.POST("/reset_password/:token", authHandler.ResetPassword)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/", postHandler.Feed)            // home: followed plus own
		authorized.GET("/explore", postHandler.Explore)  // posts outside communities
		authorized.POST("/posts", postHandler.Create)    // new post
		authorized.GET("/posts/:id", postHandler.Detail) // post + comments
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/posts/:id/comments", postHandler.CreateComment)
		authorized.DELETE("/comments/:id", postHandler.DeleteComment)

		authorized.POST("/vote/:type/:id", voteHandler.Upvote)
		authorized.POST("/vote/:type/:id/down", voteHandler.Downvote)

		authorized.GET("/users/:username", userHandler.Profile)
		authorized.PUT("/profile", userHandler.UpdateProfile)
		authorized.POST("/users/:username/follow", userHandler.Follow)
		authorized.POST("/users/:username/unfollow", userHandler.Unfollow)

		authorized.GET("/messages", messageHandler.Inbox) // viewing marks read
		authorized.POST("/messages/:username", messageHandler.Send)
		authorized.DELETE("/messages/:id", messageHandler.Delete)

		authorized.GET("/notifications", notificationHandler.List)

		authorized.GET("/communities", communityHandler.List)
		authorized.POST("/communities", communityHandler.Create)
		authorized.GET("/communities/:id", communityHandler.Detail)
		authorized.POST("/communities/:id/join", communityHandler.Join)
		authorized.POST("/communities/:id/leave", communityHandler.Leave)
	}
}
