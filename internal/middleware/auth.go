package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bikehouse/internal/identity"
)

const identityKey = "identity"

// Authenticate resolves the optional bearer token into an identity and stores
// it on the context. It never rejects: a missing, malformed or unverifiable
// token leaves the request anonymous, and handlers decide what that means.
func Authenticate(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Anonymous

		header := c.GetHeader("Authorization")
		if token, ok := identity.BearerToken(header); ok {
			verified, err := verifier.Verify(c.Request.Context(), token)
			if err != nil {
				zap.L().Debug("[AUTH] token not verified, continuing anonymous",
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			} else {
				id = verified
			}
		} else if header != "" {
			zap.L().Debug("[AUTH] malformed authorization header", zap.String("path", c.FullPath()))
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// CurrentIdentity returns the identity Authenticate stored, or anonymous when
// the route does not authenticate.
func CurrentIdentity(c *gin.Context) identity.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return identity.Anonymous
	}
	id, _ := value.(identity.Identity)
	return id
}

// AbortNotAuthorized writes the fixed 401 body clients match on.
func AbortNotAuthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"Message": "User Not Authorized"})
}
