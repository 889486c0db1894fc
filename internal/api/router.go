package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/auth"
)

func NewRouter(app App, provider auth.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(app.Logger()))

	r.GET("/health", Health())

	authed := r.Group("/")
	authed.Use(auth.AuthMiddleware(provider, app.Logger()))

	authed.POST("/sleep", PostSleep(app))
	authed.GET("/sleep/:userId", GetSleep(app))
	authed.GET("/sleep/:userId/stats", GetSleepStats(app))
	authed.GET("/sleep/:userId/events", GetSleepEvents(app))
	authed.PUT("/sleep/:id", PutSleep(app))
	authed.DELETE("/sleep/:id", DeleteSleep(app))

	authed.GET("/api/analysis/range", GetRangeAnalysis(app))
	authed.GET("/api/analysis/monthly", GetMonthlyAnalysis(app))

	analyze := []gin.HandlerFunc{}
	if counter := app.RateCounter(); counter != nil {
		cfg := app.Config()
		analyze = append(analyze, RateLimit(counter, "analyze", cfg.AnalyzeRateLimit, cfg.AnalyzeRateWindow, app.Logger()))
	}
	analyze = append(analyze, PostAnalyze(app))
	authed.POST("/analyze", analyze...)

	return r
}

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
