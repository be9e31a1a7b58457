package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/media"
	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

// testServer wires the real stack over the container database.
type testServer struct {
	handler   http.Handler
	validator *auth.Validator
	orders    service.OrderService
}

func setupTestServer(t *testing.T, testDB *TestDB) *testServer {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	addressRepo := repository.NewAddressRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	featureRepo := repository.NewFeatureRepository(testDB.Pool, logger)

	gateway, err := payment.NewRedirectGateway(config.PaymentConfig{
		ApprovalURL: "https://pay.example/checkout",
		ReturnURL:   "http://shop.example/return",
		CancelURL:   "http://shop.example/cancel",
	}, logger)
	require.NoError(t, err)

	images := media.NewFallbackStore(nil, media.NewFileStore(t.TempDir(), "/media", logger), false, logger)
	validator := auth.NewValidator(testSecret, "")

	productService := service.NewProductService(productRepo, images, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	addressService := service.NewAddressService(addressRepo, logger)
	orderService := service.NewOrderService(orderRepo, addressRepo, productRepo, cartService,
		gateway, auth.ClaimsAuthority{}, events.NewLogPublisher(logger), logger)
	featureService := service.NewFeatureService(featureRepo, logger)

	h := router.New(router.Handlers{
		Products:  handler.NewProductHandler(productService, logger),
		Carts:     handler.NewCartHandler(cartService, logger),
		Addresses: handler.NewAddressHandler(addressService, logger),
		Orders:    handler.NewOrderHandler(orderService, logger),
		Features:  handler.NewFeatureHandler(featureService, logger),
	}, router.Options{
		AllowedOrigin: "http://shop.example",
		Validator:     validator,
		Ping:          testDB.Pool.Ping,
	}, logger)

	return &testServer{handler: h, validator: validator, orders: orderService}
}

func (s *testServer) token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := s.validator.Sign(userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends a request and decodes a JSON response into out when non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestCatalogueAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := setupTestServer(t, testDB)
	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	t.Run("lists without a token", func(t *testing.T) {
		var products []model.Product
		status := srv.do(t, http.MethodGet, "/api/shop/products?category=men&sortBy=price-hightolow", "", nil, &products)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, products, 2)
		assert.Equal(t, "tee", products[0].ID)
		assert.Equal(t, "sock", products[1].ID)
	})

	t.Run("admin edits are partial", func(t *testing.T) {
		adminToken := srv.token(t, "admin-1", auth.RoleAdmin)

		var product model.Product
		status := srv.do(t, http.MethodPut, "/api/admin/products/sock", adminToken, map[string]any{"totalStock": 9}, &product)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 9, product.TotalStock)
		assert.Equal(t, "Socks", product.Title)
	})

	t.Run("shoppers cannot edit", func(t *testing.T) {
		status := srv.do(t, http.MethodDelete, "/api/admin/products/tee", srv.token(t, "u1", "user"), nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestCheckoutFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := setupTestServer(t, testDB)
	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	userToken := srv.token(t, "u1", "user")
	adminToken := srv.token(t, "admin-1", auth.RoleAdmin)

	var addr model.Address
	status := srv.do(t, http.MethodPost, "/api/shop/address", userToken, model.AddressRequest{
		Address: "12 Market Street", City: "Pune", Pincode: "411001", Phone: "9999999999",
	}, &addr)
	require.Equal(t, http.StatusCreated, status)

	// Stock boundary: 5 in stock, so 5 fits and a sixth does not.
	var cart model.CartView
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/shop/cart", userToken, model.CartItemRequest{ProductID: "tee", Quantity: 5}, &cart))
	var errResp model.ErrorResponse
	require.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, "/api/shop/cart", userToken, model.CartItemRequest{ProductID: "tee", Quantity: 1}, &errResp))
	assert.Equal(t, model.ErrCodeStockExceeded, errResp.Error)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPut, "/api/shop/cart/tee", userToken, model.CartQuantityRequest{Quantity: 2}, &cart))
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/shop/cart", userToken, model.CartItemRequest{ProductID: "cap", Quantity: 1}, &cart))
	assert.True(t, decimal.NewFromInt(40).Equal(cart.TotalAmount))

	var checkout model.CheckoutResponse
	status = srv.do(t, http.MethodPost, "/api/shop/order", userToken, model.CheckoutRequest{AddressID: addr.ID.String()}, &checkout)
	require.Equal(t, http.StatusCreated, status)
	order := checkout.Order
	assert.True(t, decimal.NewFromInt(40).Equal(order.TotalAmount))
	assert.Equal(t, model.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "Pune", order.Address.City)

	approval, err := url.Parse(checkout.ApprovalURL)
	require.NoError(t, err)
	assert.Equal(t, order.ID.String(), approval.Query().Get("token"))
	assert.Equal(t, "40.00", approval.Query().Get("amount"))

	// Price drift after checkout does not touch the order.
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPut, "/api/admin/products/tee", adminToken, map[string]any{"price": "99"}, nil))

	// Checkout keeps the cart until payment succeeds.
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/shop/cart", userToken, nil, &cart))
	assert.Len(t, cart.Items, 2)

	returnPath := "/api/shop/order/return?token=" + order.ID.String() + "&paymentId=PAY-1&PayerID=PAYER-1"
	var paid model.Order
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, returnPath, "", nil, &paid))
	assert.Equal(t, model.OrderStatusConfirmed, paid.OrderStatus)
	assert.Equal(t, model.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, "PAY-1", paid.ExternalPaymentID)
	assert.True(t, decimal.NewFromInt(40).Equal(paid.TotalAmount))
	assert.True(t, decimal.NewFromInt(10).Equal(paid.Items[0].Price))

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/shop/cart", userToken, nil, &cart))
	assert.Empty(t, cart.Items)

	var tee model.Product
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/shop/products/tee", "", nil, &tee))
	assert.Equal(t, 3, tee.TotalStock)

	// Duplicate gateway callback.
	errResp = model.ErrorResponse{}
	require.Equal(t, http.StatusConflict, srv.do(t, http.MethodGet, returnPath, "", nil, &errResp))
	assert.Equal(t, model.ErrCodeAlreadyProcessed, errResp.Error)

	// Fulfilment.
	statusPath := "/api/admin/orders/" + order.ID.String() + "/status"
	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodPut, statusPath, userToken, model.OrderStatusRequest{OrderStatus: "inProcess"}, nil))
	for _, next := range []string{"inProcess", "inShipping", "delivered"} {
		var updated model.Order
		require.Equal(t, http.StatusOK, srv.do(t, http.MethodPut, statusPath, adminToken, model.OrderStatusRequest{OrderStatus: next}, &updated), next)
		assert.Equal(t, model.OrderStatus(next), updated.OrderStatus)
	}
	errResp = model.ErrorResponse{}
	require.Equal(t, http.StatusConflict, srv.do(t, http.MethodPut, statusPath, adminToken, model.OrderStatusRequest{OrderStatus: "rejected"}, &errResp))
	assert.Equal(t, model.ErrCodeInvalidState, errResp.Error)

	var mine []model.Order
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/shop/order", userToken, nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, model.OrderStatusDelivered, mine[0].OrderStatus)

	// Another user cannot see the order.
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/shop/order/"+order.ID.String(), srv.token(t, "u2", "user"), nil, nil))
}

func TestCancelledPayment_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := setupTestServer(t, testDB)
	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	userToken := srv.token(t, "u1", "user")

	var errResp model.ErrorResponse
	require.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, "/api/shop/order", userToken, model.CheckoutRequest{AddressID: "x"}, &errResp))
	assert.Equal(t, model.ErrCodeEmptyCart, errResp.Error)

	var addr model.Address
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/shop/address", userToken, model.AddressRequest{
		Address: "1 Road", City: "Goa", Pincode: "403001", Phone: "1",
	}, &addr))
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/shop/cart", userToken, model.CartItemRequest{ProductID: "cap", Quantity: 2}, nil))

	errResp = model.ErrorResponse{}
	require.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/api/shop/order", userToken, model.CheckoutRequest{}, &errResp))
	assert.Equal(t, model.ErrCodeMissingAddress, errResp.Error)

	var checkout model.CheckoutResponse
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/shop/order", userToken, model.CheckoutRequest{AddressID: addr.ID.String()}, &checkout))

	var failed model.Order
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/shop/order/cancel", userToken, model.CancelPaymentRequest{OrderID: checkout.Order.ID.String()}, &failed))
	assert.Equal(t, model.PaymentStatusFailed, failed.PaymentStatus)
	assert.Equal(t, model.OrderStatusPending, failed.OrderStatus)

	var cart model.CartView
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/shop/cart", userToken, nil, &cart))
	assert.Len(t, cart.Items, 1)

	// A late success callback for the failed order is refused.
	errResp = model.ErrorResponse{}
	require.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, "/api/shop/order/capture", userToken, model.CaptureRequest{
		OrderID: checkout.Order.ID.String(), PaymentID: "PAY-2", PayerID: "PAYER-2",
	}, &errResp))
	assert.Equal(t, model.ErrCodeAlreadyProcessed, errResp.Error)

	var capItem model.Product
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/shop/products/cap", "", nil, &capItem))
	assert.Equal(t, 3, capItem.TotalStock)
}
