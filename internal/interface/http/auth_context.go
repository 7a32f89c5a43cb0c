package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/skinguide/internal/domain/auth"
)

func setIdentity(c *gin.Context, identity auth.Identity) {
	c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
}

func currentUserID(c *gin.Context) string {
	identity, ok := auth.IdentityFrom(c.Request.Context())
	if !ok {
		return ""
	}
	return identity.UserID()
}
