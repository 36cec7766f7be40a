package server

import (
	"taskflow/backend/internal/handlers"
	"taskflow/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type routeSet struct {
	auth       *handlers.AuthHandler
	tasks      *handlers.TaskHandler
	categories *handlers.CategoryHandler
	dashboard  *handlers.DashboardHandler
	verifier   middleware.TokenVerifier
	limiter    *middleware.RateLimiter
}

// register mounts the API on group. It is called once for the bare paths and
// once under /api.
func (r routeSet) register(group *gin.RouterGroup) {
	if r.limiter != nil {
		group.Use(r.limiter.Middleware())
	}

	group.POST("/register", r.auth.Register)
	group.POST("/login", r.auth.Login)
	group.POST("/refresh", r.auth.Refresh)

	protected := group.Group("")
	protected.Use(middleware.Authenticate(r.verifier))

	protected.POST("/logout", r.auth.Logout)
	protected.GET("/user", r.auth.Me)
	protected.GET("/dashboard", r.dashboard.GetDashboard)

	tasks := protected.Group("/tasks")
	tasks.GET("", r.tasks.ListTasks)
	tasks.POST("", r.tasks.CreateTask)
	tasks.GET("/:id", r.tasks.GetTask)
	tasks.PUT("/:id", r.tasks.UpdateTask)
	tasks.PATCH("/:id", r.tasks.UpdateTask)
	tasks.DELETE("/:id", r.tasks.DeleteTask)

	categories := protected.Group("/categories")
	categories.GET("", r.categories.ListCategories)
	categories.POST("", r.categories.CreateCategory)
	categories.GET("/:id", r.categories.GetCategory)
	categories.PUT("/:id", r.categories.UpdateCategory)
	categories.PATCH("/:id", r.categories.UpdateCategory)
	categories.DELETE("/:id", r.categories.DeleteCategory)
}
