package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/diagnosis"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/response"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/service"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusNotFound:
		resp = response.NotFound(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		resp = response.InternalError(msg)
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleServiceError maps service and diagnosis errors onto HTTP statuses.
// Client errors carry the error text; anything unrecognised is a 500 with
// msg only.
func HandleServiceError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrRecordNotFound), errors.Is(err, service.ErrNoRecords):
		status = http.StatusNotFound
	case errors.Is(err, diagnosis.ErrDiagnosisFailed):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		HandleError(c, logger, err, status, msg)
		return
	}
	logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(err.Error())
	case http.StatusForbidden:
		resp = response.Forbidden(err.Error())
	case http.StatusNotFound:
		resp = response.NotFound(err.Error())
	default:
		resp = response.NewAppError(status, err.Error())
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Created", requestID)
	c.JSON(http.StatusCreated, response.Success(data, nil))
}
