package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/whisperd/errors"
)

// RespondWithError writes err in the OpenAI error envelope. An
// *apperrors.AppError supplies the status; anything else is a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response with body as JSON.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
