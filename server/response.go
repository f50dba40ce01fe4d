package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/logger"
)

// RespondWithError inspects err: if it is an *apperrors.AppError the status and
// {error} body are derived from it; otherwise a generic 500 is sent. Server
// faults are logged with their cause, which never reaches the caller.
func RespondWithError(c *gin.Context, err error) {
	appErr := resolveError(c, err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondWithMessage is RespondWithError with a {message} body.
func RespondWithMessage(c *gin.Context, err error) {
	appErr := resolveError(c, err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToMessageResponse())
}

func resolveError(c *gin.Context, err error) *apperrors.AppError {
	appErr := apperrors.Wrap(err)
	if appErr == nil {
		appErr = apperrors.Internal(nil)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		fields := logger.Fields(
			"code", string(appErr.Code),
			logger.FieldStatus, appErr.HTTPStatus,
			"path", c.Request.URL.Path,
		)
		for k, v := range appErr.Details {
			if k == "upstream_body" {
				continue
			}
			fields[k] = v
		}
		logger.Get("server").WithContext(c.Request.Context()).Error("Request failed", logger.MergeWithError(fields, appErr.Cause))
	}
	return appErr
}

// RespondJSON sends data with the given status.
func RespondJSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// RespondOK sends a 200 response with data as the body.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 response with data as the body.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
