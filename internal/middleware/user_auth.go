package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"bikehouse/internal/database"
	"bikehouse/internal/models"
)

// RequireIdentity rejects anonymous requests. It must run after Authenticate.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsVerified() {
			zap.L().Debug("[AUTH] anonymous request rejected", zap.String("path", c.FullPath()))
			AbortNotAuthorized(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin lets a request through only when the verified email belongs to
// a user whose role is admin. It must run after Authenticate.
func RequireAdmin(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := CurrentIdentity(c).Email()
		if !ok {
			AbortNotAuthorized(c)
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		_, err := store.Users.FindOne(ctx, bson.M{"email": email, "role": models.RoleAdmin})
		if errors.Is(err, database.ErrNotFound) {
			zap.L().Info("[AUTH] admin route refused", zap.String("email", email), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"Message": "Forbidden"})
			return
		}
		if err != nil {
			zap.L().Error("[AUTH] admin lookup failed", zap.String("email", email), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.Next()
	}
}
