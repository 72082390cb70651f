// internal/handlers/product.go
package handlers

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

const imageFilesField = "imageFiles"

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// productForm is the multipart shape of a product write.
type productForm struct {
	ID                 int64    `form:"id"`
	UserID             string   `form:"userId"`
	ProductName        string   `form:"productName"`
	ProductPrice       string   `form:"productPrice"`
	ProductCode        int      `form:"productCode"`
	ProductSKU         int      `form:"productSKU"`
	ProductDescription string   `form:"productDescription"`
	ProductPublish     string   `form:"productPublish"`
	ProductTags        string   `form:"productTags"`
	ProductCategory    string   `form:"productCategory"`
	InStock            bool     `form:"inStock"`
	ImageUrls          []string `form:"imageUrls"`
}

func (f *productForm) toRequest() (*services.ProductRequest, []utils.ValidationError) {
	raw := strings.TrimSpace(f.ProductPrice)
	if raw == "" {
		return nil, []utils.ValidationError{{Field: "productPrice", Tag: "required", Message: "productPrice is required"}}
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, []utils.ValidationError{{Field: "productPrice", Tag: "decimal", Message: "productPrice must be a decimal number"}}
	}

	return &services.ProductRequest{
		ID:                 f.ID,
		UserID:             f.UserID,
		ProductName:        f.ProductName,
		ProductPrice:       price,
		ProductCode:        f.ProductCode,
		ProductSKU:         f.ProductSKU,
		ProductDescription: f.ProductDescription,
		ProductPublish:     models.ProductPublish(strings.ToLower(f.ProductPublish)),
		ProductTags:        models.ProductTags(strings.ToLower(f.ProductTags)),
		ProductCategory:    models.ProductCategory(strings.ToLower(f.ProductCategory)),
		InStock:            f.InStock,
		ImageUrls:          f.ImageUrls,
	}, nil
}

// bindProductForm parses the multipart body into a request plus uploads.
func bindProductForm(c *gin.Context) (*services.ProductRequest, []*multipart.FileHeader, bool) {
	lang := utils.GetLangFromContext(c)

	var form productForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return nil, nil, false
	}

	req, fieldErrs := form.toRequest()
	if len(fieldErrs) > 0 {
		utils.ValidationErrorResponse(c, fieldErrs)
		return nil, nil, false
	}

	var files []*multipart.FileHeader
	if c.Request.MultipartForm != nil {
		files = c.Request.MultipartForm.File[imageFilesField]
	}

	return req, files, true
}

// GET /api/product
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /api/product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /api/product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	req, files, ok := bindProductForm(c)
	if !ok {
		return
	}

	// Default the owner to the caller.
	if strings.TrimSpace(req.UserID) == "" {
		if userID, exists := utils.GetUserIDFromContext(c); exists {
			req.UserID = userID
		}
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req, files)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, fmt.Sprintf("/api/product/%d", product.ID), product)
}

// PUT /api/product/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	req, files, ok := bindProductForm(c)
	if !ok {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, req, files)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /api/product/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
