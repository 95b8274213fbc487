package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/synopsis/internal/middleware"
)

type RouterDeps struct {
	Summarize *SummarizeHandler
	Summaries *SummaryHandler
	Plans     *PlanHandler
	JWTSecret []byte
	// Minimum interval between summarize requests per caller, 0 disables.
	SummarizeWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/plans", deps.Plans.List)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/summaries", middleware.RateLimit(deps.SummarizeWindow), deps.Summarize.Create)
	authGroup.GET("/summaries", deps.Summaries.List)
	authGroup.GET("/summaries/:id", deps.Summaries.Get)
	authGroup.GET("/summaries/:id/export", deps.Summaries.Export)
	authGroup.GET("/me/stats", deps.Summaries.Stats)
}
