package middleware

import (
	"bytes"
	"io"

	"github.com/robertoraimondo/budget/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// request bodies longer than this are not recorded
const maxAuditBody = 2000

// AuditMiddleware persists every authenticated request for review.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint
		if v, ok := c.Get(CtxUserKey); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		// only record actions of logged-in users
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody {
			action += " " + string(bodyBytes)
		}

		entry := models.AuditLog{
			UserID:    &userID,
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
