package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bikehouse/internal/database"
	"bikehouse/internal/models"
)

/*
POST /review
- JSON body (image as base64) or multipart form with an "img" file
*/
func CreateReview(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /review"
		defer handlePanic(c, route)

		var review models.Review
		if isMultipart(c) {
			parsed, err := parseMultipartReviewRequest(c)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error(), err)
				return
			}
			review = parsed
		} else if err := c.ShouldBindJSON(&review); err != nil {
			respondValidationError(c, route, err)
			return
		}
		review.ID = primitive.NilObjectID

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Reviews.InsertOne(ctx, &review)
		if err != nil {
			respondStoreError(c, route, "review", err)
			return
		}

		zap.L().Info("review created", zap.String("route", route), zap.String("id", result.InsertedID.Hex()))
		c.JSON(http.StatusOK, result)
	}
}

func GetReviews(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews"
		defer handlePanic(c, route)

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		reviews, err := store.Reviews.FindAll(ctx)
		if err != nil {
			respondStoreError(c, route, "review", err)
			return
		}

		c.JSON(http.StatusOK, reviews)
	}
}
