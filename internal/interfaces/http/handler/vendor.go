package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/application/vendor"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/interfaces/http/dto"
)

// VendorHandler handles vendor applications and storefront pages
type VendorHandler struct {
	BaseHandler
	vendorService *vendor.Service
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorService *vendor.Service) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// RegisterPublicRoutes registers the shopper-facing store page route
func (h *VendorHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/stores/:slug", h.GetBySlug)
}

// RegisterRoutes registers vendor self-service on an authenticated group
func (h *VendorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vg := rg.Group("/vendor")
	vg.POST("/apply", h.Apply)
	vg.GET("/me", h.GetMine)
	vg.PUT("/me", h.UpdateProfile)
}

// RegisterAdminRoutes registers vendor review; the caller gates the
// group on the manage_vendors permission
func (h *VendorHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	vendors := rg.Group("/vendors")
	vendors.GET("", h.List)
	vendors.POST("/:id/approve", h.Approve)
	vendors.POST("/:id/reject", h.Reject)
	vendors.POST("/:id/suspend", h.Suspend)
}

// Apply submits a vendor application for the calling user
func (h *VendorHandler) Apply(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req vendor.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.vendorService.Apply(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetMine returns the caller's vendor account in any status
func (h *VendorHandler) GetMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.vendorService.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetBySlug returns an approved vendor's public store page
func (h *VendorHandler) GetBySlug(c *gin.Context) {
	result, err := h.vendorService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateProfile updates the caller's store profile
func (h *VendorHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req vendor.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.vendorService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns vendors for review, optionally filtered by status
func (h *VendorHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	listReq = listReq.WithDefaults()

	result, err := h.vendorService.List(c.Request.Context(), c.Query("status"), shared.Filter{
		Search:   listReq.Search,
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Vendors, result.Total, listReq.Page, listReq.PageSize)
}

// Approve approves a pending application
func (h *VendorHandler) Approve(c *gin.Context) {
	h.transition(c, h.vendorService.Approve)
}

// Reject rejects a pending application
func (h *VendorHandler) Reject(c *gin.Context) {
	h.transition(c, h.vendorService.Reject)
}

// Suspend suspends an approved vendor
func (h *VendorHandler) Suspend(c *gin.Context) {
	h.transition(c, h.vendorService.Suspend)
}

func (h *VendorHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*vendor.VendorResponse, error)) {
	vendorID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	result, err := apply(c.Request.Context(), vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
