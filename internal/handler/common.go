package handler

import (
	"github.com/robertoraimondo/budget/internal/middleware"
	"github.com/robertoraimondo/budget/internal/models"

	"github.com/gin-gonic/gin"
)

// currentUser returns the authenticated user placed in the context by
// the auth middleware, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// currentSessionID returns the session id of the authenticated request.
func currentSessionID(c *gin.Context) string {
	v, ok := c.Get(middleware.CtxSessionKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
