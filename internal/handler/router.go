package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/calarcon/aulabot/internal/middleware"
)

type RouterDeps struct {
	Chat        *ChatHandler
	Courses     *CourseHandler
	AdminAPIKey string
	ChatWindow  time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	chat := api.Group("")
	chat.Use(middleware.RateLimit(deps.ChatWindow))
	chat.POST("/chat", deps.Chat.Post)

	api.GET("/courses", deps.Courses.List)

	admin := api.Group("")
	admin.Use(middleware.APIKey(deps.AdminAPIKey))
	admin.POST("/courses/updates", deps.Courses.AddUpdate)
}
