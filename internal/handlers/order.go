package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bikehouse/internal/database"
	"bikehouse/internal/middleware"
	"bikehouse/internal/models"
)

/* =========================
   CREATE ORDER
========================= */

// CreateOrder stores the posted order as-is. Served at POST /parchase.
func CreateOrder(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /parchase"
		defer handlePanic(c, route)

		var order models.Order
		if err := c.ShouldBindJSON(&order); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body", err)
			return
		}
		order.ID = primitive.NilObjectID

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Orders.InsertOne(ctx, &order)
		if err != nil {
			respondStoreError(c, route, "order", err)
			return
		}

		zap.L().Info("order created", zap.String("route", route), zap.String("id", result.InsertedID.Hex()))
		c.JSON(http.StatusOK, result)
	}
}

/* =========================
   GET ORDERS
========================= */

// GetOrdersByEmail lists the caller's own orders. The email query parameter
// must equal the verified identity.
func GetOrdersByEmail(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		email := c.Query("email")
		verified, ok := middleware.CurrentIdentity(c).Email()
		if !ok || email == "" || email != verified {
			zap.L().Info("order listing refused",
				zap.String("route", route),
				zap.String("requested", email),
				zap.String("identity", middleware.CurrentIdentity(c).String()),
			)
			middleware.AbortNotAuthorized(c)
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		orders, err := store.Orders.Find(ctx, bson.M{"email": email})
		if err != nil {
			respondStoreError(c, route, "order", err)
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

func GetAllOrders(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /allorders"
		defer handlePanic(c, route)

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		orders, err := store.Orders.FindAll(ctx)
		if err != nil {
			respondStoreError(c, route, "order", err)
			return
		}

		zap.L().Debug("returning orders", zap.String("route", route), zap.Int("count", len(orders)))
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrder(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c, route)
		if !ok {
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		order, err := store.Orders.FindByID(ctx, id)
		if err != nil {
			respondStoreError(c, route, "order", err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   PAYMENT / CANCEL
========================= */

// AttachPayment replaces the order's payment field with the request body.
// Existing payment fields are not merged.
func AttachPayment(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c, route)
		if !ok {
			return
		}

		var payment bson.M
		if err := c.ShouldBindJSON(&payment); err != nil || payment == nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body", err)
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"payment": payment})
		if err != nil {
			respondStoreError(c, route, "order", err)
			return
		}

		zap.L().Info("payment attached", zap.String("route", route), zap.String("id", id.Hex()), zap.Int64("matched", result.MatchedCount))
		c.JSON(http.StatusOK, result)
	}
}

// CancelOrder deletes the order. Served at DELETE /cancelorders/:id.
func CancelOrder(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cancelorders/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c, route)
		if !ok {
			return
		}

		ctx, cancel := store.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := store.Orders.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondStoreError(c, route, "order", err)
			return
		}

		zap.L().Info("order cancelled", zap.String("route", route), zap.String("id", id.Hex()), zap.Int64("deleted", result.DeletedCount))
		c.JSON(http.StatusOK, result)
	}
}
