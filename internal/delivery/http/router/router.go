// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"tracker/internal/delivery/http/middleware"
	"tracker/internal/delivery/http/router/handler"
	"tracker/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	TaskHandler    *handler.TaskHandler
	ProjectHandler *handler.ProjectHandler
	ChatHandler    *handler.ChatHandler
	SessionHandler *handler.SessionHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	taskHandler    *handler.TaskHandler
	projectHandler *handler.ProjectHandler
	chatHandler    *handler.ChatHandler
	sessionHandler *handler.SessionHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		taskHandler:    params.TaskHandler,
		projectHandler: params.ProjectHandler,
		chatHandler:    params.ChatHandler,
		sessionHandler: params.SessionHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Credential lifecycle. Refresh and logout authenticate with the session
	// handle alone, so the whole group stays outside the auth middleware.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.SignUp)
		authGroup.POST("/signin", r.authHandler.SignIn)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/info", r.userHandler.Info)
		userGroup.GET("/list", r.userHandler.List, r.authMiddleware.RequireRole(entity.RoleAdmin))
		userGroup.PUT("/me", r.userHandler.UpdateMe)
		userGroup.PUT("/id/:id", r.userHandler.UpdateByID, r.authMiddleware.RequireRole(entity.RoleAdmin))
		userGroup.PUT("/password", r.userHandler.ChangePassword)
		userGroup.GET("/referral", r.userHandler.ReferralToken)
	}

	taskGroup := e.Group("/task")
	taskGroup.Use(r.authMiddleware.Authenticate)
	{
		taskGroup.POST("", r.taskHandler.Create)
		taskGroup.GET("", r.taskHandler.List)
		taskGroup.GET("/:id", r.taskHandler.GetByID)
		taskGroup.PUT("/:id", r.taskHandler.Update)
		taskGroup.DELETE("/:id", r.taskHandler.Delete)
	}

	projectGroup := e.Group("/project")
	projectGroup.Use(r.authMiddleware.Authenticate)
	{
		projectGroup.POST("", r.projectHandler.Create)
		projectGroup.GET("", r.projectHandler.List)
		projectGroup.GET("/:id", r.projectHandler.GetByID)
		projectGroup.DELETE("/:id", r.projectHandler.Delete)
	}

	chatGroup := e.Group("/chat")
	chatGroup.Use(r.authMiddleware.Authenticate)
	{
		chatGroup.POST("", r.chatHandler.Post)
		chatGroup.GET("", r.chatHandler.History)
	}

	sessionGroup := e.Group("/session")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.GET("", r.sessionHandler.List)
		sessionGroup.DELETE("/:id", r.sessionHandler.Revoke)
		sessionGroup.DELETE("", r.sessionHandler.RevokeAll)
	}
}
