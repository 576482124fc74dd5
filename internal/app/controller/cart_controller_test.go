package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/internal/app/service"
	"github.com/hanbyul/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, service.CartService, *gin.Engine, *gorm.DB, *model.User, *model.Item) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	cartService := service.NewCartService(cartRepo, itemRepo, nil, nil)
	cartController := NewCartController(cartService)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		Username:     "shopper",
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

	return cartController, cartService, router, testDB, user, item
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestCartController_GetCart_Success(t *testing.T) {
	controller, cartService, router, _, user, item := setupCartControllerTest(t)

	require.NoError(t, cartService.AddItem(user.ID, item.ID))

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, "79.99", response["total"])
}

func TestCartController_GetCart_Empty(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(0), response["count"])
	assert.Equal(t, "0", response["total"])
}

func TestCartController_GetCart_Unauthorized(t *testing.T) {
	controller, _, router, _, _, _ := setupCartControllerTest(t)

	router.GET("/cart", controller.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "AUTH_UNAUTHORIZED", response["error"])
}

func TestCartController_AddItem_Success(t *testing.T) {
	controller, _, router, _, user, item := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddCartItemRequest{ItemID: item.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCartController_AddItem_NotFound(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddCartItemRequest{ItemID: 9999})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ITEM_NOT_FOUND", response["error"])
}

func TestCartController_AddItem_Duplicate(t *testing.T) {
	controller, cartService, router, _, user, item := setupCartControllerTest(t)

	require.NoError(t, cartService.AddItem(user.ID, item.ID))

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddCartItemRequest{ItemID: item.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CART_ITEM_EXISTS", response["error"])
}

func TestCartController_AddItem_InvalidBody(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_RemoveItem_Success(t *testing.T) {
	controller, cartService, router, _, user, item := setupCartControllerTest(t)

	require.NoError(t, cartService.AddItem(user.ID, item.ID))

	router.DELETE("/cart/items/:item_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/"+itoa(item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	contents, err := cartService.GetCartContents(user.ID)
	require.NoError(t, err)
	assert.Len(t, contents.Items, 0)
}

func TestCartController_RemoveItem_NotInCart(t *testing.T) {
	controller, _, router, _, user, item := setupCartControllerTest(t)

	router.DELETE("/cart/items/:item_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/"+itoa(item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CART_ITEM_NOT_FOUND", response["error"])
}
