package auth

import (
	"github.com/gin-gonic/gin"
)

// ContextKeyUserID is the Gin context key holding the current user ID.
const ContextKeyUserID = "auth_user_id"

const contextKeySessions = "auth_sessions"

// DefaultUserID owns the imports of requests handled without a session
// manager, such as the command line importers.
const DefaultUserID = uint(0)

// Identity returns a middleware that resolves the current user. A user logged
// in by the host application wins; anonymous sessions get their own guest ID
// the first time a handler asks for it, so requests that never need an owner
// do not start a session. Must be registered after SessionLoadSave.
func Identity(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sm != nil {
			if id := sm.GetUserID(c.Request.Context()); id != 0 {
				c.Set(ContextKeyUserID, id)
			} else {
				c.Set(contextKeySessions, sm)
			}
		}
		c.Next()
	}
}

// GetUserID retrieves the current user's ID from the context.
// Returns DefaultUserID when Identity did not run.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	if v, exists := c.Get(contextKeySessions); exists {
		if sm, ok := v.(*SessionManager); ok {
			guestID := sm.GuestID(c.Request.Context())
			c.Set(ContextKeyUserID, guestID)
			return guestID
		}
	}
	return DefaultUserID
}
