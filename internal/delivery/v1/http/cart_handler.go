package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

// getCart
//
//	@Summary	Текущая корзина сессии
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	false	"ID покупательской сессии"
//	@Success	200				{object}	CartResponse
//	@Router		/cart [get]
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUsecase.GetCart(r.Context(), SessionID(r))
	if err != nil {
		h.logger.Warnf("get cart failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewCartResponse(view))
}

// addItem
//
//	@Summary		Добавление товара в корзину
//	@Description	Повторное добавление увеличивает количество на единицу
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string			false	"ID покупательской сессии"
//	@Param			request			body		AddItemRequest	true	"ID добавляемого товара"
//	@Success		200				{object}	CartResponse
//	@Failure		404				{object}	ErrorResponse	"Товар не найден"
//	@Failure		409				{object}	ErrorResponse	"Товара нет в наличии"
//	@Router			/cart/items [post]
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	view, err := h.cartUsecase.AddItem(r.Context(), SessionID(r), req.ProductID)
	if err != nil {
		h.logger.Warnf("add item failed, product: %s: %s", req.ProductID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewCartResponse(view))
}

// removeItem
//
//	@Summary	Удаление позиции из корзины
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	false	"ID покупательской сессии"
//	@Param		productID		path		string	true	"ID товара"
//	@Success	200				{object}	CartResponse
//	@Router		/cart/items/{productID} [delete]
func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	view, err := h.cartUsecase.RemoveItem(r.Context(), SessionID(r), productID)
	if err != nil {
		h.logger.Warnf("remove item failed, product: %s: %s", productID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewCartResponse(view))
}

// setQuantity
//
//	@Summary		Изменение количества позиции
//	@Description	Количество ноль или меньше удаляет позицию из корзины
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string				false	"ID покупательской сессии"
//	@Param			productID		path		string				true	"ID товара"
//	@Param			request			body		SetQuantityRequest	true	"Новое количество"
//	@Success		200				{object}	CartResponse
//	@Router			/cart/items/{productID} [put]
func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	view, err := h.cartUsecase.SetQuantity(r.Context(), SessionID(r), productID, req.Quantity)
	if err != nil {
		h.logger.Warnf("set quantity failed, product: %s: %s", productID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewCartResponse(view))
}

// clearCart
//
//	@Summary	Очистка корзины
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	false	"ID покупательской сессии"
//	@Success	200				{object}	CartResponse
//	@Router		/cart [delete]
func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUsecase.Clear(r.Context(), SessionID(r))
	if err != nil {
		h.logger.Warnf("clear cart failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewCartResponse(view))
}
