package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/events"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/service"
)

func PostSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.SleepRecordRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		rec, err := service.CreateSleepRecord(c.Request.Context(), app.SleepRepo(), user, &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to save sleep record")
			return
		}

		app.Events().Publish(events.Event{Type: events.RecordCreated, UserID: rec.UserID, RecordID: rec.ID, At: app.Now()})
		HandleCreated(c, app.Logger(), rec)
	}
}

func GetSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		records, err := service.ListSleepRecords(c.Request.Context(), app.SleepRepo(), user,
			c.Param("userId"), c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch sleep records")
			return
		}

		HandleSuccess(c, app.Logger(), records, map[string]any{"count": len(records)})
	}
}

func GetSleepStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		stats, err := service.GetSleepStats(c.Request.Context(), app.SleepRepo(), user, c.Param("userId"), app.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch sleep records for stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func PutSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		id, err := recordID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid record id")
			return
		}
		var body service.SleepRecordPatchRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		rec, err := service.UpdateSleepRecord(c.Request.Context(), app.SleepRepo(), user, id, &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update sleep record")
			return
		}

		app.Events().Publish(events.Event{Type: events.RecordUpdated, UserID: rec.UserID, RecordID: rec.ID, At: app.Now()})
		HandleSuccess(c, app.Logger(), rec, nil)
	}
}

// DeleteSleep answers {"success": false} for ids the caller does not own.
func DeleteSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		id, err := recordID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid record id")
			return
		}

		ok, err := service.DeleteSleepRecord(c.Request.Context(), app.SleepRepo(), user, id)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to delete sleep record")
			return
		}
		if ok {
			app.Events().Publish(events.Event{Type: events.RecordDeleted, UserID: user.ID, RecordID: id, At: app.Now()})
		}
		HandleSuccess(c, app.Logger(), gin.H{"success": ok}, nil)
	}
}

func recordID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a positive integer", c.Param("id"))
	}
	return id, nil
}
