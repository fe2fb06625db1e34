package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/luxemart/storefront/internal/application/catalog"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/interfaces/http/dto"
	"github.com/luxemart/storefront/internal/interfaces/http/middleware"
)

// ProductHandler handles public browsing and vendor product management
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterPublicRoutes registers the shopper-facing browse routes
func (h *ProductHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.ListPublished)
	products.GET("/:slug", h.GetBySlug)
}

// RegisterVendorRoutes registers product management for approved vendors
func (h *ProductHandler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/vendor/products", middleware.RequireVendor())
	products.GET("", h.ListMine)
	products.POST("", h.Create)
	products.POST("/import", h.Import)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)
	products.POST("/:id/publish", h.Publish)
	products.POST("/:id/unpublish", h.Unpublish)
}

// RegisterAdminRoutes registers moderation routes; the caller gates the
// group on the product management permission
func (h *ProductHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("/:id", h.GetByID)
	products.POST("/:id/unpublish", h.ForceUnpublish)
	products.DELETE("/:id", h.ForceDelete)
}

func listFilter(c *gin.Context) (shared.Filter, dto.ListRequest, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, req, false
	}
	req = req.WithDefaults()
	return shared.Filter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}, req, true
}

// ListPublished returns the public catalog, optionally filtered by a
// category slug
func (h *ProductHandler) ListPublished(c *gin.Context) {
	filter, req, ok := listFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	var (
		result *catalog.ProductListResponse
		err    error
	)
	if categorySlug := c.Query("category"); categorySlug != "" {
		result, err = h.productService.ListByCategory(c.Request.Context(), categorySlug, filter)
	} else {
		result, err = h.productService.ListPublished(c.Request.Context(), filter)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Products, result.Total, req.Page, req.PageSize)
}

// GetBySlug returns one published product and counts the view
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ListMine returns the calling vendor's products, published or not
func (h *ProductHandler) ListMine(c *gin.Context) {
	vendorID, err := getVendorID(c)
	if err != nil {
		h.Unauthorized(c, "Vendor account required")
		return
	}

	filter, req, ok := listFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	result, err := h.productService.ListByVendor(c.Request.Context(), vendorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Products, result.Total, req.Page, req.PageSize)
}

// Create creates an unpublished product for the calling vendor
func (h *ProductHandler) Create(c *gin.Context) {
	vendorID, err := getVendorID(c)
	if err != nil {
		h.Unauthorized(c, "Vendor account required")
		return
	}

	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), vendorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Import bulk-creates products from a CSV upload. A partial import
// returns 200 with the per-row errors in the report.
func (h *ProductHandler) Import(c *gin.Context) {
	vendorID, err := getVendorID(c)
	if err != nil {
		h.Unauthorized(c, "Vendor account required")
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing CSV file")
		return
	}
	defer file.Close()

	result, err := h.productService.ImportCSV(c.Request.Context(), vendorID, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID returns any product including unpublished ones, for the
// moderation view
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ForceUnpublish hides a product by moderator action
func (h *ProductHandler) ForceUnpublish(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.ForceUnpublish(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ForceDelete removes a product by moderator action
func (h *ProductHandler) ForceDelete(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.ForceDelete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Update updates an owned product
func (h *ProductHandler) Update(c *gin.Context) {
	vendorID, err := getVendorID(c)
	if err != nil {
		h.Unauthorized(c, "Vendor account required")
		return
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), vendorID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes an owned product
func (h *ProductHandler) Delete(c *gin.Context) {
	vendorID, err := getVendorID(c)
	if err != nil {
		h.Unauthorized(c, "Vendor account required")
		return
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), vendorID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Publish makes an owned product visible to shoppers
func (h *ProductHandler) Publish(c *gin.Context) {
	h.setPublished(c, true)
}

// Unpublish hides an owned product from shoppers
func (h *ProductHandler) Unpublish(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *ProductHandler) setPublished(c *gin.Context, published bool) {
	vendorID, err := getVendorID(c)
	if err != nil {
		h.Unauthorized(c, "Vendor account required")
		return
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var product *catalog.ProductResponse
	if published {
		product, err = h.productService.Publish(c.Request.Context(), vendorID, productID)
	} else {
		product, err = h.productService.Unpublish(c.Request.Context(), vendorID, productID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
