package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Myphz/wwwallet-be/internal/dto"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

func SendSuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.NewSuccessResponse(message, data))
}

func SendErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, dto.NewErrorResponse(message))
}

// SendError maps an error to its HTTP status: AppErrors carry their own
// code, anything else is an internal error (storage failures included).
func SendError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		SendErrorResponse(c, appErr.Code, appErr.Message)
		return
	}
	SendErrorResponse(c, http.StatusInternalServerError, "Internal server error: "+err.Error())
}

func SendValidationError(c *gin.Context, err error) {
	SendErrorResponse(c, http.StatusBadRequest, "Validation failed: "+err.Error())
}

func SendInternalError(c *gin.Context, err error) {
	SendErrorResponse(c, http.StatusInternalServerError, "Internal server error: "+err.Error())
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusUnauthorized, message)
}

func SendTooManyRequestsError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusTooManyRequests, message)
}
