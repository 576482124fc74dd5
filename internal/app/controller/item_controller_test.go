package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/internal/app/service"
	"github.com/hanbyul/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reqPrice(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func setupItemControllerTest(t *testing.T) (*ItemController, service.ItemService, *gin.Engine) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	itemRepo := repository.NewItemRepository(testDB)
	itemService := service.NewItemService(itemRepo)
	itemController := NewItemController(itemService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return itemController, itemService, router
}

func TestItemController_ListItems(t *testing.T) {
	controller, itemService, router := setupItemControllerTest(t)

	_, err := itemService.CreateItem("Wireless Headphones", "Over-ear", decimal.RequireFromString("79.99"), "")
	require.NoError(t, err)
	_, err = itemService.CreateItem("USB-C Cable", "2m braided", decimal.RequireFromString("12.50"), "")
	require.NoError(t, err)

	router.GET("/items", controller.ListItems)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])

	items := response["items"].([]interface{})
	prices := make(map[string]bool)
	for _, raw := range items {
		item := raw.(map[string]interface{})
		prices[item["price"].(string)] = true
	}
	assert.True(t, prices["79.99"])
	assert.True(t, prices["12.50"])
}

func TestItemController_GetItem_Success(t *testing.T) {
	controller, itemService, router := setupItemControllerTest(t)

	item, err := itemService.CreateItem("Wireless Headphones", "", decimal.RequireFromString("79.99"), "")
	require.NoError(t, err)

	router.GET("/items/:id", controller.GetItem)

	req := httptest.NewRequest(http.MethodGet, "/items/"+itoa(item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	got := response["item"].(map[string]interface{})
	assert.Equal(t, "Wireless Headphones", got["name"])
	assert.Equal(t, "79.99", got["price"])
}

func TestItemController_GetItem_NotFound(t *testing.T) {
	controller, _, router := setupItemControllerTest(t)

	router.GET("/items/:id", controller.GetItem)

	req := httptest.NewRequest(http.MethodGet, "/items/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ITEM_NOT_FOUND", response["error"])
}

func TestItemController_GetItem_InvalidID(t *testing.T) {
	controller, _, router := setupItemControllerTest(t)

	router.GET("/items/:id", controller.GetItem)

	req := httptest.NewRequest(http.MethodGet, "/items/not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_INVALID_ID", response["error"])
}

func TestItemController_CreateItem_Success(t *testing.T) {
	controller, _, router := setupItemControllerTest(t)

	router.POST("/admin/items", controller.CreateItem)

	body, _ := json.Marshal(CreateItemRequest{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless",
		Price:       reqPrice("129.00"),
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	item := response["item"].(map[string]interface{})
	assert.Equal(t, "Mechanical Keyboard", item["name"])
	assert.Equal(t, "active", item["status"])
}

func TestItemController_CreateItem_FreeItem(t *testing.T) {
	controller, _, router := setupItemControllerTest(t)

	router.POST("/admin/items", controller.CreateItem)

	// A zero price is a valid price, only a missing one is rejected
	body, _ := json.Marshal(CreateItemRequest{
		Name:  "Sticker Pack",
		Price: reqPrice("0"),
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	item := response["item"].(map[string]interface{})
	assert.Equal(t, "0", item["price"])
}

func TestItemController_CreateItem_MissingPrice(t *testing.T) {
	controller, _, router := setupItemControllerTest(t)

	router.POST("/admin/items", controller.CreateItem)

	body := []byte(`{"name": "No Price Tag"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
}

func TestItemController_CreateItem_NegativePrice(t *testing.T) {
	controller, _, router := setupItemControllerTest(t)

	router.POST("/admin/items", controller.CreateItem)

	body, _ := json.Marshal(CreateItemRequest{
		Name:  "Broken Listing",
		Price: reqPrice("-5.00"),
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ITEM_PRICE_BELOW_ZERO", response["error"])
}

func TestItemController_UpdateItem_Deactivate(t *testing.T) {
	controller, itemService, router := setupItemControllerTest(t)

	item, err := itemService.CreateItem("Wireless Headphones", "", decimal.RequireFromString("79.99"), "")
	require.NoError(t, err)

	router.PUT("/admin/items/:id", controller.UpdateItem)
	router.GET("/items/:id", controller.GetItem)

	body, _ := json.Marshal(UpdateItemRequest{
		Name:   "Wireless Headphones",
		Price:  reqPrice("79.99"),
		Status: "inactive",
	})
	req := httptest.NewRequest(http.MethodPut, "/admin/items/"+itoa(item.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Deactivated items disappear from the shopper surface
	req = httptest.NewRequest(http.MethodGet, "/items/"+itoa(item.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemController_UpdateItem_NotFound(t *testing.T) {
	controller, _, router := setupItemControllerTest(t)

	router.PUT("/admin/items/:id", controller.UpdateItem)

	body, _ := json.Marshal(UpdateItemRequest{
		Name:  "Ghost Item",
		Price: reqPrice("1.00"),
	})
	req := httptest.NewRequest(http.MethodPut, "/admin/items/999", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemController_DeleteItem(t *testing.T) {
	controller, itemService, router := setupItemControllerTest(t)

	item, err := itemService.CreateItem("Wireless Headphones", "", decimal.RequireFromString("79.99"), "")
	require.NoError(t, err)

	router.DELETE("/admin/items/:id", controller.DeleteItem)

	req := httptest.NewRequest(http.MethodDelete, "/admin/items/"+itoa(item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/admin/items/"+itoa(item.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
