package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserKey    = "currentUser"
	CtxSessionKey = "sessionID"
)

// AuthMiddleware validates the JWT, checks that its session row is
// still live, and puts the current user into the context.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query param ?token=xxx (downloads can't set headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) cookie
		if tokenStr == "" {
			if cookie, err := c.Cookie("pfl_token"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		// the session row must still exist and be unrevoked, so that
		// logout and full reset invalidate live tokens
		var session models.Session
		if err := db.Where("id = ? AND revoked = ?", claims.SessionID, false).
			First(&session).Error; err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}
		if session.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "user not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
			}
			c.Abort()
			return
		}

		c.Set(CtxUserKey, &user)
		c.Set(CtxSessionKey, session.ID)
		c.Next()
	}
}
