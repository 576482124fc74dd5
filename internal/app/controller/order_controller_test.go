package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/internal/app/service"
	"github.com/hanbyul/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderControllerTest(t *testing.T) (*OrderController, service.CartService, service.OrderService, *gin.Engine, *model.User, *model.Item) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	cartService := service.NewCartService(cartRepo, itemRepo, nil, nil)
	orderService := service.NewOrderService(orderRepo, cartRepo, nil, nil)
	orderController := NewOrderController(orderService)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Username:     "buyer",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	item := &model.Item{
		Name:   "Wireless Headphones",
		Price:  decimal.RequireFromString("79.99"),
		Status: model.ItemStatusActive,
	}
	testDB.Create(item)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return orderController, cartService, orderService, router, user, item
}

func TestOrderController_Checkout_Success(t *testing.T) {
	controller, cartService, _, router, user, item := setupOrderControllerTest(t)

	require.NoError(t, cartService.AddItem(user.ID, item.ID))

	router.POST("/checkout", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	order := response["order"].(map[string]interface{})
	assert.Equal(t, "79.99", order["total"])
	assert.Equal(t, "completed", order["status"])
}

func TestOrderController_Checkout_EmptyCart(t *testing.T) {
	controller, _, _, router, user, _ := setupOrderControllerTest(t)

	router.POST("/checkout", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CART_EMPTY", response["error"])
}

func TestOrderController_Checkout_Unauthorized(t *testing.T) {
	controller, _, _, router, _, _ := setupOrderControllerTest(t)

	router.POST("/checkout", controller.Checkout)

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderController_ListOrders(t *testing.T) {
	controller, cartService, orderService, router, user, item := setupOrderControllerTest(t)

	require.NoError(t, cartService.AddItem(user.ID, item.ID))
	_, err := orderService.Checkout(user.ID)
	require.NoError(t, err)

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ListOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestOrderController_GetOrder_Success(t *testing.T) {
	controller, cartService, orderService, router, user, item := setupOrderControllerTest(t)

	require.NoError(t, cartService.AddItem(user.ID, item.ID))
	order, err := orderService.Checkout(user.ID)
	require.NoError(t, err)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/"+itoa(order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["items"], 1)
}

func TestOrderController_GetOrder_NotFound(t *testing.T) {
	controller, _, _, router, user, _ := setupOrderControllerTest(t)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ORDER_NOT_FOUND", response["error"])
}
