package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"bikehouse/internal/database"
	"bikehouse/internal/identity"
	"bikehouse/internal/middleware"
	"bikehouse/internal/models"
	"bikehouse/internal/payment"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (payment.Intent, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(payment.Intent), args.Error(1)
}

type stubVerifier map[string]string

func (s stubVerifier) Verify(_ context.Context, token string) (identity.Identity, error) {
	if email, ok := s[token]; ok {
		return identity.Verified(email), nil
	}
	return identity.Anonymous, identity.ErrInvalidToken
}

func do(r *gin.Engine, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestCreatePaymentIntent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gateway := new(MockGateway)
	gateway.On("CreateIntent", mock.Anything, payment.IntentRequest{Amount: 1000, Currency: "usd"}).
		Return(payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)

	r := gin.New()
	r.POST("/create-payment-intent", CreatePaymentIntent(gateway, "usd"))

	w := do(r, http.MethodPost, "/create-payment-intent", `{"price":10}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_1_secret"}`, w.Body.String())
	gateway.AssertExpectations(t)
}

func TestCreatePaymentIntentRejectsBadPrices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gateway := new(MockGateway)

	r := gin.New()
	r.POST("/create-payment-intent", CreatePaymentIntent(gateway, "usd"))

	for _, body := range []string{`{}`, `{"price":"abc"}`, `{"price":0}`, `{"price":-3}`, `{"price":1.005}`} {
		w := do(r, http.MethodPost, "/create-payment-intent", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestCreatePaymentIntentGatewayFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gateway := new(MockGateway)
	gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(payment.Intent{}, errors.New("card network down"))

	r := gin.New()
	r.POST("/create-payment-intent", CreatePaymentIntent(gateway, "usd"))

	w := do(r, http.MethodPost, "/create-payment-intent", `{"price":"19.99"}`, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "card network down")
}

func TestGetOrdersByEmailRequiresMatchingIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := database.NewMemoryStore()
	ctx := context.Background()
	_, err := store.Orders.InsertOne(ctx, &models.Order{Email: "a@example.com", Details: bson.M{"productName": "Trail 500"}})
	require.NoError(t, err)
	_, err = store.Orders.InsertOne(ctx, &models.Order{Email: "b@example.com"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Authenticate(stubVerifier{"tok-a": "a@example.com"}))
	r.GET("/orders", GetOrdersByEmail(store))

	w := do(r, http.MethodGet, "/orders?email=a@example.com", "", bearer("tok-a"))
	require.Equal(t, http.StatusOK, w.Code)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "a@example.com", orders[0]["email"])
	assert.Equal(t, "Trail 500", orders[0]["productName"])

	for _, tc := range []struct {
		target string
		header http.Header
	}{
		{"/orders?email=b@example.com", bearer("tok-a")},
		{"/orders?email=a@example.com", nil},
		{"/orders?email=a@example.com", bearer("forged")},
		{"/orders", bearer("tok-a")},
	} {
		w := do(r, http.MethodGet, tc.target, "", tc.header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.target)
		assert.JSONEq(t, `{"Message":"User Not Authorized"}`, w.Body.String(), tc.target)
	}
}

func TestAttachPaymentReplacesPaymentField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := database.NewMemoryStore()
	ctx := context.Background()
	inserted, err := store.Orders.InsertOne(ctx, &models.Order{Email: "a@example.com", Payment: bson.M{"old": true}})
	require.NoError(t, err)

	r := gin.New()
	r.PUT("/orders/:id", AttachPayment(store))

	w := do(r, http.MethodPut, "/orders/"+inserted.InsertedID.Hex(), `{"transactionId":"pi_9","last4":"4242"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	order, err := store.Orders.FindByID(ctx, inserted.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, "pi_9", order.Payment["transactionId"])
	assert.NotContains(t, order.Payment, "old")

	w = do(r, http.MethodPut, "/orders/not-an-id", `{"x":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/explore/:id", GetProduct(database.NewMemoryStore()))

	w := do(r, http.MethodGet, "/explore/64b7f0c2a1b2c3d4e5f60718", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/explore/zzz", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserAdminLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := database.NewMemoryStore()

	r := gin.New()
	r.PUT("/users", UpsertUser(store))
	r.PUT("/users/admin", MakeAdmin(store))
	r.GET("/users/:email", GetUserAdminStatus(store))

	w := do(r, http.MethodGet, "/users/new@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":false}`, w.Body.String())

	w = do(r, http.MethodPut, "/users", `{"email":"new@example.com","displayName":"New","role":"admin"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPut, "/users", `{"email":"new@example.com","displayName":"Renamed"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	users, err := store.Users.Find(context.Background(), bson.M{"email": "new@example.com"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Renamed", users[0].DisplayName)
	assert.False(t, users[0].IsAdmin())

	w = do(r, http.MethodPut, "/users/admin", `{"email":"new@example.com"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/users/new@example.com", "", nil)
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())

	w = do(r, http.MethodPut, "/users/admin", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReviewJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := database.NewMemoryStore()

	r := gin.New()
	r.POST("/review", CreateReview(store))
	r.GET("/reviews", GetReviews(store))

	w := do(r, http.MethodPost, "/review", `{"_id":"64b7f0c2a1b2c3d4e5f60718","name":"Sam","email":"sam@example.com","rating":5,"comment":"fast","image":"aGVsbG8="}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inserted database.InsertResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inserted))
	assert.True(t, inserted.Acknowledged)
	assert.NotEqual(t, "64b7f0c2a1b2c3d4e5f60718", inserted.InsertedID.Hex())

	w = do(r, http.MethodGet, "/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "hello", string(reviews[0].Image))
}
