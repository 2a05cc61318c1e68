// Package router holds the storefront's single route table.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bikehouse/internal/config"
	"bikehouse/internal/database"
	"bikehouse/internal/handlers"
	"bikehouse/internal/identity"
	"bikehouse/internal/middleware"
	"bikehouse/internal/payment"
)

type Deps struct {
	Store    *database.Store
	Verifier identity.Verifier
	Gateway  payment.Gateway
	Logger   *zap.Logger

	Currency    string
	AdminPolicy string
}

// New builds the engine. Every request is authenticated optionally; routes
// that need more add their own guard.
func New(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	verifier := d.Verifier
	if verifier == nil {
		verifier = identity.NoneVerifier{}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Authenticate(verifier))

	store := d.Store
	admin := adminGuard(d.AdminPolicy, store)

	r.GET("/", handlers.Home())
	r.GET("/healthz", handlers.Health(store))

	r.GET("/explore", handlers.GetProducts(store))
	r.GET("/explore/:id", handlers.GetProduct(store))
	r.POST("/product", append(admin, handlers.CreateProduct(store))...)
	r.DELETE("/deleteproduct/:id", append(admin, handlers.DeleteProduct(store))...)

	r.POST("/parchase", handlers.CreateOrder(store))
	r.GET("/orders", handlers.GetOrdersByEmail(store))
	r.GET("/orders/:id", handlers.GetOrder(store))
	r.PUT("/orders/:id", handlers.AttachPayment(store))
	r.DELETE("/cancelorders/:id", handlers.CancelOrder(store))

	allOrders := admin
	if d.AdminPolicy == config.AdminPolicyOpen {
		allOrders = []gin.HandlerFunc{middleware.RequireIdentity()}
	}
	r.GET("/allorders", append(allOrders, handlers.GetAllOrders(store))...)

	r.POST("/users", handlers.CreateUser(store))
	r.PUT("/users", handlers.UpsertUser(store))
	r.PUT("/users/admin", append(admin, handlers.MakeAdmin(store))...)
	r.GET("/users/:email", handlers.GetUserAdminStatus(store))

	r.POST("/review", handlers.CreateReview(store))
	r.GET("/reviews", handlers.GetReviews(store))

	r.POST("/create-payment-intent", handlers.CreatePaymentIntent(d.Gateway, d.Currency))

	return r
}

// adminGuard returns the chain placed in front of admin routes. Under the
// open policy it is empty.
func adminGuard(policy string, store *database.Store) []gin.HandlerFunc {
	if policy == config.AdminPolicyOpen {
		return nil
	}
	return []gin.HandlerFunc{middleware.RequireIdentity(), middleware.RequireAdmin(store)}
}
