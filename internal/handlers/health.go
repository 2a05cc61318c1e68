package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bikehouse/internal/database"
)

func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Bike House server is running")
	}
}

// Health reports whether the store answers a ping.
func Health(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
