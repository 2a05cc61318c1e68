package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bikehouse/internal/database"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		zap.L().Error("panic recovered", zap.String("route", route), zap.Any("panic", r))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string, err error) {
	fields := []zap.Field{
		zap.String("route", route),
		zap.Int("status", status),
		zap.String("message", message),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("returning error", fields...)
	} else {
		zap.L().Warn("returning error", fields...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondStoreError maps a store failure onto a status code.
func respondStoreError(c *gin.Context, route string, entity string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, entity+" not found", err)
	case errors.Is(err, database.ErrInvalidID):
		respondWithError(c, http.StatusBadRequest, route, "invalid id", err)
	default:
		respondWithError(c, http.StatusInternalServerError, route, "db error", err)
	}
}

func parseIDParam(c *gin.Context, route string) (primitive.ObjectID, bool) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid id", err)
		return primitive.NilObjectID, false
	}
	return id, true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		zap.L().Warn("validation failed", zap.String("route", route), zap.Strings("details", details))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	respondWithError(c, http.StatusBadRequest, route, "invalid request body", err)
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	runes := []rune(field)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
