package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisperd/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// ModelState reports whether the speech model is loaded.
type ModelState interface {
	Loaded() bool
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Health returns a handler that always answers 200 while the process serves
// HTTP, reporting whether the model is loaded.
func Health(model ModelState) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:      "ok",
			ModelLoaded: model != nil && model.Loaded(),
		})
	}
}
