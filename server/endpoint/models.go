package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Fixed values of the advertised model entry.
const (
	ModelID      = "whisper-1"
	ModelCreated = 1677610602
	ModelOwner   = "openai"
)

// Model is one entry of the model listing.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the /v1/models body.
type ModelList struct {
	Data   []Model `json:"data"`
	Object string  `json:"object"`
}

var modelList = ModelList{
	Data: []Model{{
		ID:      ModelID,
		Object:  "model",
		Created: ModelCreated,
		OwnedBy: ModelOwner,
	}},
	Object: "list",
}

// Models returns a handler listing the single OpenAI model id clients send.
// The listing does not depend on which backend is loaded.
func Models() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, modelList)
	}
}
