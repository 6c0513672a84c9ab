package middleware

import (
	"bytes"
	"io"

	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// sensitiveBodyPaths lists endpoints whose request bodies carry credentials.
// Their bodies are never copied into the audit trail.
var sensitiveBodyPaths = map[string]bool{
	"/api/profile/password": true,
}

// AuditMiddleware records method, path and a request-body excerpt for every
// authenticated request. Bodies of credential-bearing endpoints are redacted.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint
		if user, ok := CurrentUser(c); ok {
			userID = user.ID
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		// only record operations of signed-in users
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		switch {
		case sensitiveBodyPaths[path]:
			action += " [redacted]"
		case len(bodyBytes) > 0 && len(bodyBytes) < 1000:
			action += " " + string(bodyBytes)
		}

		entry := models.AuditLog{
			UserID:    &userID,
			Path:      path,
			Method:    c.Request.Method,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
