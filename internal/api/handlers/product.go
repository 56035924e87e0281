package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/littlefern/storefront-api/internal/api/middleware"
	"github.com/littlefern/storefront-api/internal/models"
	service "github.com/littlefern/storefront-api/internal/services"
	"github.com/littlefern/storefront-api/internal/utils"
	"github.com/littlefern/storefront-api/internal/utils/response"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProduct godoc
//	@Summary		Get a product by ID
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int	true	"Product ID"
//	@Success		200	{object}	models.Product
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseInt64(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// GetProductBySlug godoc
//	@Summary		Get a product by slug
//	@Tags			Products
//	@Produce		json
//	@Param			slug	path		string	true	"Product slug"
//	@Success		200		{object}	models.Product
//	@Router			/products/slug/{slug} [get]
func (h *ProductHandler) GetProductBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		slug := r.PathValue("slug")

		product, err := h.productService.GetProductBySlug(r.Context(), slug)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("slug", slug), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListProducts godoc
//	@Summary		List products
//	@Description	Active products, filterable by category and effective price range.
//	@Tags			Products
//	@Produce		json
//	@Param			category	query		int		false	"Category ID"
//	@Param			minPrice	query		number	false	"Minimum effective price"
//	@Param			maxPrice	query		number	false	"Maximum effective price"
//	@Param			page		query		int		false	"Page number (default 1)"
//	@Param			pageSize	query		int		false	"Items per page (default 20)"
//	@Success		200			{object}	models.PaginatedResponse
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, pageSize := utils.Pagination(r)

		filter := &models.ProductFilter{Page: page, PageSize: pageSize}

		if v, err := strconv.ParseInt(r.URL.Query().Get("category"), 10, 64); err == nil && v > 0 {
			filter.CategoryID = v
		}

		if v, err := strconv.ParseFloat(r.URL.Query().Get("minPrice"), 64); err == nil && v > 0 {
			filter.MinPrice = v
		}

		if v, err := strconv.ParseFloat(r.URL.Query().Get("maxPrice"), 64); err == nil && v > 0 {
			filter.MaxPrice = v
		}

		products, total, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     products,
			Total:    total,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		})
	}
}
