package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/luxemart/storefront/internal/application/admin"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/interfaces/http/dto"
)

// AdminHandler handles admin grants and user administration
type AdminHandler struct {
	BaseHandler
	adminService *admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RegisterAdminManagementRoutes registers grant management; the caller
// gates the group on the manage_admins permission
func (h *AdminHandler) RegisterAdminManagementRoutes(rg *gin.RouterGroup) {
	admins := rg.Group("/admins")
	admins.GET("", h.List)
	admins.POST("", h.Grant)
	admins.PUT("/:id/permissions", h.UpdatePermissions)
	admins.DELETE("/:id", h.Revoke)
}

// RegisterUserManagementRoutes registers user administration; the
// caller gates the group on the manage_users permission
func (h *AdminHandler) RegisterUserManagementRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("", h.ListUsers)
	users.POST("/:id/activate", h.Activate)
	users.POST("/:id/deactivate", h.Deactivate)
}

// List returns every admin grant
func (h *AdminHandler) List(c *gin.Context) {
	result, err := h.adminService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Grant makes a user an admin with a role and permission set
func (h *AdminHandler) Grant(c *gin.Context) {
	var req admin.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.adminService.Grant(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// UpdatePermissions replaces an admin's permission set
func (h *AdminHandler) UpdatePermissions(c *gin.Context) {
	adminID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid admin ID")
		return
	}

	var req admin.UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.adminService.UpdatePermissions(c.Request.Context(), adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Revoke removes an admin grant
func (h *AdminHandler) Revoke(c *gin.Context) {
	adminID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid admin ID")
		return
	}

	if err := h.adminService.Revoke(c.Request.Context(), adminID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListUsers returns user accounts for administration
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	listReq = listReq.WithDefaults()

	result, err := h.adminService.ListUsers(c.Request.Context(), shared.Filter{
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

	h.SuccessWithMeta(c, result.Users, result.Total, listReq.Page, listReq.PageSize)
}

// Activate re-enables a disabled account
func (h *AdminHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables an account; its sessions are invalidated by the
// service so existing tokens stop working
func (h *AdminHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.adminService.SetUserActive(c.Request.Context(), userID, active); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
