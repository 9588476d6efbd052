package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics serves the Prometheus exposition format from h, or from the
// default registry when h is nil.
func Metrics(h http.Handler) gin.HandlerFunc {
	if h == nil {
		h = promhttp.Handler()
	}
	return gin.WrapH(h)
}
