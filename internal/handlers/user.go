package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"bikehouse/internal/database"
	"bikehouse/internal/models"
)

type createUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type upsertUserRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"displayName"`
}

type makeAdminRequest struct {
	Email string `json:"email" binding:"required"`
}

// CreateUser inserts the posted user. Emails are not checked for
// duplicates and a posted role is ignored.
func CreateUser(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users"
		defer handlePanic(c, route)

		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		user := models.User{
			Email:       strings.TrimSpace(req.Email),
			DisplayName: strings.TrimSpace(req.DisplayName),
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Users.InsertOne(ctx, &user)
		if err != nil {
			respondStoreError(c, route, "user", err)
			return
		}

		zap.L().Info("user created", zap.String("route", route), zap.String("id", result.InsertedID.Hex()))
		c.JSON(http.StatusOK, result)
	}
}

// UpsertUser records a sign-in: the user with this email is created if
// missing, otherwise its display name is refreshed. Role is never taken from
// the body.
func UpsertUser(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users"
		defer handlePanic(c, route)

		var req upsertUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		email := strings.TrimSpace(req.Email)
		set := bson.M{"email": email}
		if name := strings.TrimSpace(req.DisplayName); name != "" {
			set["displayName"] = name
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Users.UpsertOne(ctx, bson.M{"email": email}, set)
		if err != nil {
			respondStoreError(c, route, "user", err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GetUserAdminStatus reports {"admin": bool} for an email. Unknown emails are
// not admins. With duplicate emails any admin copy counts, matching
// middleware.RequireAdmin.
func GetUserAdminStatus(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/:email"
		defer handlePanic(c, route)

		email := c.Param("email")

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		isAdmin := true
		_, err := store.Users.FindOne(ctx, bson.M{"email": email, "role": models.RoleAdmin})
		switch {
		case errors.Is(err, database.ErrNotFound):
			isAdmin = false
		case err != nil:
			respondStoreError(c, route, "user", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"admin": isAdmin})
	}
}

// MakeAdmin sets role=admin on the user with the posted email. There is no
// route that reverses it.
func MakeAdmin(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/admin"
		defer handlePanic(c, route)

		var req makeAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Users.UpdateOne(ctx, bson.M{"email": req.Email}, bson.M{"role": models.RoleAdmin})
		if err != nil {
			respondStoreError(c, route, "user", err)
			return
		}

		zap.L().Info("admin granted", zap.String("route", route), zap.String("email", req.Email), zap.Int64("matched", result.MatchedCount))
		c.JSON(http.StatusOK, result)
	}
}
