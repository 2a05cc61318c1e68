package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bikehouse/internal/database"
	"bikehouse/internal/models"
)

/*
GET /explore
- every product, no pagination
*/
func GetProducts(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /explore"
		defer handlePanic(c, route)

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		products, err := store.Products.FindAll(ctx)
		if err != nil {
			respondStoreError(c, route, "product", err)
			return
		}

		zap.L().Debug("returning products", zap.String("route", route), zap.Int("count", len(products)))
		c.JSON(http.StatusOK, products)
	}
}

/*
GET /explore/:id
*/
func GetProduct(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /explore/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c, route)
		if !ok {
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		product, err := store.Products.FindByID(ctx, id)
		if err != nil {
			respondStoreError(c, route, "product", err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

/*
POST /product
- JSON body (image as base64) or multipart form with an "image" file
*/
func CreateProduct(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /product"
		defer handlePanic(c, route)

		var product models.Product
		if isMultipart(c) {
			parsed, err := parseMultipartProductRequest(c)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error(), err)
				return
			}
			product = parsed
		} else if err := c.ShouldBindJSON(&product); err != nil {
			respondValidationError(c, route, err)
			return
		}
		product.ID = primitive.NilObjectID

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Products.InsertOne(ctx, &product)
		if err != nil {
			respondStoreError(c, route, "product", err)
			return
		}

		zap.L().Info("product created",
			zap.String("route", route),
			zap.String("id", result.InsertedID.Hex()),
			zap.Int("image_bytes", len(product.Image)),
		)
		c.JSON(http.StatusOK, result)
	}
}

/*
DELETE /deleteproduct/:id
*/
func DeleteProduct(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /deleteproduct/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c, route)
		if !ok {
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Products.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondStoreError(c, route, "product", err)
			return
		}

		zap.L().Info("product deleted", zap.String("route", route), zap.String("id", id.Hex()), zap.Int64("deleted", result.DeletedCount))
		c.JSON(http.StatusOK, result)
	}
}
