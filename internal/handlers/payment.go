package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bikehouse/internal/payment"
)

type paymentIntentRequest struct {
	Price *decimal.Decimal `json:"price" binding:"required"`
}

// CreatePaymentIntent asks the gateway to authorize price*100 minor units and
// returns only the client secret.
func CreatePaymentIntent(gateway payment.Gateway, currency string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /create-payment-intent"
		defer handlePanic(c, route)

		var req paymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		amount, err := payment.MinorUnits(*req.Price)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error(), err)
			return
		}

		intent, err := gateway.CreateIntent(c.Request.Context(), payment.IntentRequest{
			Amount:   amount,
			Currency: currency,
		})
		if err != nil {
			respondWithError(c, http.StatusBadGateway, route, "payment gateway error", err)
			return
		}

		zap.L().Info("payment intent created",
			zap.String("route", route),
			zap.String("intent", intent.ID),
			zap.Int64("amount", amount),
			zap.String("currency", currency),
		)
		c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
	}
}
