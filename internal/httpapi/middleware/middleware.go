package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/common"
	"github.com/milkyai/milky-relay/internal/identity"
)

const (
	RequestIDKey = "request_id"
	SubjectKey   = "subject_id"
)

// RequestID tags every request with an id, echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// Recovery converts panics into the uniform error envelope instead of
// letting gin dump stack text to the client.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				common.Fail(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// AuthRequired verifies the bearer credential and stores the subject id.
// Any verification failure is a plain 401; a missing identity
// configuration is an explicit 500, never a silent pass-through.
func AuthRequired(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			common.Fail(c, http.StatusInternalServerError, "Identity provider not configured")
			c.Abort()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		ident, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, "No valid authorization token")
			c.Abort()
			return
		}
		c.Set(SubjectKey, ident.SubjectID)
		c.Next()
	}
}

func bearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

// Subject returns the verified subject id for the request, if any.
func Subject(c *gin.Context) (string, bool) {
	v, ok := c.Get(SubjectKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
