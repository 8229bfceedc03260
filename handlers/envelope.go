package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shortlink-admin/types"
)

// HeaderRequestID carries the id of a request in both directions.
const HeaderRequestID = "X-Request-Id"

const requestIDKey = "requestId"

// envelope is the wire form of every API answer.
type envelope struct {
	Code      types.Code `json:"code"`
	Message   string     `json:"message,omitempty"`
	Data      any        `json:"data"`
	RequestID string     `json:"requestId,omitempty"`
	Success   bool       `json:"success"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{
		Code:      types.CodeSuccess,
		Data:      data,
		RequestID: c.GetString(requestIDKey),
		Success:   true,
	})
}

func fail(c *gin.Context, status int, code types.Code, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
	})
}

// RequestIDMiddleware tags every request with an id, reusing the caller's one when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
