package api

import (
	"errors"
	"net/http"

	"warehouse-service/internal/service"
	"warehouse-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the single envelope every endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// statusFor maps a service error kind to its HTTP status
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindReference, service.KindUniqueness, service.KindDependency:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Storage failures are logged in full
// and reported with a generic message.
func fail(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status := statusFor(kind)

	msg := "internal server error"
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Message
	}

	if status >= http.StatusInternalServerError {
		util.GetLogger().Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.JSON(status, Response{Success: false, Error: msg})
}
