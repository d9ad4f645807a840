package httpapi

import (
	"taskboard/internal/auth"
	"taskboard/internal/ratelimit"
	"taskboard/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RefreshPath authenticates by cookie and is exempt from the bearer check.
const RefreshPath = "/auth/refresh-token"

// Register wires HTTP routes to handlers.
// Keep this file free of business logic. limiter may be nil.
func Register(r *gin.Engine, h Handlers, limiter *ratelimit.Limiter) {
	r.GET("/healthz", h.Health)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", ratelimit.ByClientIP(limiter), h.Signup)
		authGroup.POST("/login", ratelimit.ByClientIP(limiter), h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/refresh-token", h.RefreshToken)
	}

	protected := r.Group("/")
	// RefreshPath is registered above, outside this group; the exemption only matters if it moves here.
	protected.Use(auth.RequireAccessToken(h.Auth, h.Users, RefreshPath))
	{
		protected.GET("/users", h.ListUsers)
		protected.GET("/users/me", h.Me)

		protected.POST("/tasks", h.CreateTask)
		protected.GET("/tasks", h.ListTasks)
		protected.PUT("/tasks/complete", h.CompleteTask)
		protected.PUT("/tasks/:slug", h.UpdateTask)
		protected.DELETE("/tasks/:slug", h.DeleteTask)

		admin := protected.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin))
		{
			admin.GET("/users", h.AdminListUsers)
		}
	}
}
