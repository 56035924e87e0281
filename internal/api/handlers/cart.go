package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/littlefern/storefront-api/internal/api/middleware"
	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	service "github.com/littlefern/storefront-api/internal/services"
	"github.com/littlefern/storefront-api/internal/utils"
	"github.com/littlefern/storefront-api/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the caller's cart
//	@Description	Returns the cart lines with a product display snapshot, the subtotal, and free-shipping progress.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartResponse
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			logger.Warn("Cart access without identity")
			response.Error(w, errors.UnauthorizedError("Authentication or session token required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), identity)
		if err != nil {
			logger.Error("Failed to fetch cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add an item to the cart
//	@Description	Adds a product line. A line with the same product, size and color is merged by incrementing its quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Item to add"
//	@Success		201		{object}	models.CartItem
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication or session token required"))
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		item, err := h.cartService.AddItem(r.Context(), identity, &req)
		if err != nil {
			logger.Error("Failed to add cart item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item added", slog.String("itemId", item.ID.String()), slog.Int64("productId", item.ProductID))
		response.Success(w, http.StatusCreated, item)
	}
}

// UpdateQuantity godoc
//	@Summary		Update a cart line's quantity
//	@Description	Sets the line quantity. Zero or negative removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string							true	"Cart item ID (UUID)"
//	@Param			quantity	body		models.UpdateQuantityRequest	true	"New quantity"
//	@Success		200			{object}	models.CartItem
//	@Router			/cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication or session token required"))
			return
		}

		itemID, err := utils.ParseUUID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.WriteJson(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		item, removed, err := h.cartService.UpdateQuantity(r.Context(), identity, itemID, req.Quantity)
		if err != nil {
			logger.Error("Failed to update cart item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if removed {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		response.Success(w, http.StatusOK, item)
	}
}

// RemoveItem godoc
//	@Summary		Remove a cart line
//	@Tags			Cart
//	@Param			id	path	string	true	"Cart item ID (UUID)"
//	@Success		204
//	@Router			/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication or session token required"))
			return
		}

		itemID, err := utils.ParseUUID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), identity, itemID); err != nil {
			logger.Error("Failed to remove cart item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearCart godoc
//	@Summary		Clear the cart
//	@Tags			Cart
//	@Success		204
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication or session token required"))
			return
		}

		if err := h.cartService.ClearCart(r.Context(), identity); err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
