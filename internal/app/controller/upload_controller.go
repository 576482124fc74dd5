package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/app/service"
	apperrors "github.com/hanbyul/storefront-backend/internal/errors"
	"github.com/hanbyul/storefront-backend/internal/middleware"
	"github.com/hanbyul/storefront-backend/internal/storage"
)

type UploadController struct {
	storage     *storage.S3Storage
	itemService service.ItemService
}

func NewUploadController(storage *storage.S3Storage, itemService service.ItemService) *UploadController {
	return &UploadController{
		storage:     storage,
		itemService: itemService,
	}
}

type ItemImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadItemImage issues a presigned PUT URL for an item image and points
// the item at the resulting file URL. The admin client uploads the bytes
// to S3 directly.
// POST /api/v1/admin/items/:id/image
func (ctrl *UploadController) UploadItemImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ItemImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid item image request", map[string]interface{}{
			"item_id": itemID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid content type for item image", map[string]interface{}{
			"item_id":      itemID,
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	response, err := ctrl.storage.GenerateItemImageUploadURL(req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"item_id":      itemID,
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.InternalError(c, "Failed to generate upload URL")
		return
	}

	if err := ctrl.itemService.SetItemImage(itemID, response.FileURL); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
			return
		}
		log.Error("Failed to set item image", err, map[string]interface{}{
			"item_id": itemID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update item")
		return
	}

	log.Info("Item image upload URL issued", map[string]interface{}{
		"item_id": itemID,
		"key":     response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
