package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// ProductHandler implements product routine endpoints
type ProductHandler struct {
	service *service.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiV1Products lists the caller's products
func (h *ProductHandler) GetApiV1Products(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	products, err := h.service.ListProducts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list products", zap.String("user_id", userID))
		return
	}

	response := make([]api.ProductResponse, 0, len(products))
	for i := range products {
		response = append(response, toProductResponse(&products[i]))
	}

	c.JSON(http.StatusOK, response)
}

// PostApiV1Products adds a product; new products start active
func (h *ProductHandler) PostApiV1Products(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req api.CreateProductRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	product := &model.Product{
		Name:     req.Name,
		Category: model.ProductCategory(req.Category),
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Notes != nil {
		product.Notes = *req.Notes
	}
	if req.StartDate != nil {
		product.StartDate = dateToTime(*req.StartDate)
	}

	if err := h.service.AddProduct(c.Request.Context(), userID, product); err != nil {
		respondError(c, h.logger, err, "Failed to add product", zap.String("user_id", userID))
		return
	}

	h.logger.Info("product added",
		zap.String("product_id", product.ID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// PutApiV1ProductsId applies a partial update
func (h *ProductHandler) PutApiV1ProductsId(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req api.UpdateProductRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	upd := model.ProductUpdate{
		Name:      req.Name,
		Brand:     req.Brand,
		StartDate: datePtrToTime(req.StartDate),
		IsActive:  req.IsActive,
		Notes:     req.Notes,
	}
	if req.Category != nil {
		category := model.ProductCategory(*req.Category)
		upd.Category = &category
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), userID, uuidToString(id), upd)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product", zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// PutApiV1ProductsIdActive starts or stops using a product
func (h *ProductHandler) PutApiV1ProductsIdActive(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req api.SetProductActiveRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	if err := h.service.SetActive(c.Request.Context(), userID, uuidToString(id), req.IsActive); err != nil {
		respondError(c, h.logger, err, "Failed to update product", zap.String("user_id", userID))
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteApiV1ProductsId removes a product
func (h *ProductHandler) DeleteApiV1ProductsId(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), userID, uuidToString(id)); err != nil {
		respondError(c, h.logger, err, "Failed to delete product", zap.String("user_id", userID))
		return
	}

	c.Status(http.StatusNoContent)
}
