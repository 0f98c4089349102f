package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aurapaste/aurapaste/models"
)

// Headers the upstream auth collaborator stamps on authenticated requests.
// The service treats them as an opaque identity; it never validates them.
const (
	HeaderUserID    = "X-Auth-User-Id"
	HeaderUserName  = "X-Auth-User-Name"
	HeaderUserEmail = "X-Auth-User-Email"
)

const identityKey = "identity"

// Identity returns a middleware that extracts the current user identity from
// the upstream auth headers. Requests without a user id stay anonymous.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(HeaderUserID); id != "" {
			c.Set(identityKey, &models.Identity{
				ID:             id,
				DisplayName:    c.GetHeader(HeaderUserName),
				ContactAddress: c.GetHeader(HeaderUserEmail),
			})
		}
		c.Next()
	}
}

// CurrentIdentity returns the request's identity, or nil for anonymous callers.
func CurrentIdentity(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
