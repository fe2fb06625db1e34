package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/infrastructure/config"
	"github.com/luxemart/storefront/internal/infrastructure/storage"
)

// UploadHandler accepts image uploads and returns their public URLs
type UploadHandler struct {
	BaseHandler
	storage storage.ImageStorage
	config  *config.StorageConfig
	logger  *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(imageStorage storage.ImageStorage, cfg *config.StorageConfig, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		storage: imageStorage,
		config:  cfg,
		logger:  logger,
	}
}

// RegisterRoutes registers the upload route; the caller gates the group
// on vendor or admin access
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/images", h.UploadImage)
}

type uploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadImage stores one multipart image under a random key. The key
// keeps the original extension so the backend serves a sensible
// content type.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		h.BadRequest(c, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateUpload(data, contentType, h.config.MaxUploadBytes); err != nil {
		h.handleValidation(c, err)
		return
	}

	key := fmt.Sprintf("images/%s/%s%s", userID, uuid.New(), filepath.Ext(header.Filename))
	url, err := h.storage.Upload(c.Request.Context(), key, data, contentType)
	if err != nil {
		h.logger.Error("Image upload failed",
			zap.String("key", key),
			zap.Error(err))
		h.InternalError(c, "Upload failed")
		return
	}

	h.Created(c, uploadResponse{URL: url, Key: key})
}

func (h *UploadHandler) handleValidation(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		h.Error(c, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Image exceeds the upload size limit")
	case errors.Is(err, storage.ErrContentTypeBlocked):
		h.Error(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WebP and GIF images are accepted")
	default:
		h.BadRequest(c, "Invalid upload")
	}
}
