package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/service"
)

func GetRangeAnalysis(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		q := service.RangeQuery{
			UserID: c.Query("userId"),
			Start:  c.Query("start"),
			End:    c.Query("end"),
			Offset: c.Query("offset"),
		}
		series, err := service.RangeAnalysis(c.Request.Context(), app.SleepRepo(), user, q, app.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to analyze range")
			return
		}
		HandleSuccess(c, app.Logger(), series, nil)
	}
}

func GetMonthlyAnalysis(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		series, err := service.MonthlyAnalysis(c.Request.Context(), app.SleepRepo(), user,
			c.Query("userId"), c.Query("year"), c.Query("month"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to analyze month")
			return
		}
		HandleSuccess(c, app.Logger(), series, nil)
	}
}

// PostAnalyze asks the AI for a diagnosis of the caller's recent sleep. An
// empty body analyses the caller.
func PostAnalyze(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.AnalyzeRequest
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		text, err := service.Diagnose(c.Request.Context(), app.SleepRepo(), app.Diagnoser(), user,
			body.UserID, app.Config().DiagnosisDays, app.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to analyze sleep data")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"analysis": text}, nil)
	}
}
