package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

type CheckoutHandler struct {
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewCheckoutHandler(checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase, logger: logger}
}

// openCheckout
//
//	@Summary		Открытие оформления заказа
//	@Description	Фиксирует снимок корзины; пустая корзина отклоняется
//	@Tags			checkout
//	@Produce		json
//	@Param			X-Session-ID	header		string	false	"ID покупательской сессии"
//	@Success		201				{object}	CheckoutResponse
//	@Failure		409				{object}	ErrorResponse	"Корзина пуста или оформление уже открыто"
//	@Router			/checkout [post]
func (h *CheckoutHandler) openCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutUsecase.Open(r.Context(), SessionID(r))
	if err != nil {
		h.logger.Warnf("open checkout failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewCheckoutResponse(view))
}

// updateField
//
//	@Summary	Запись одного поля формы оформления
//	@Tags		checkout
//	@Accept		json
//	@Produce	json
//	@Param		X-Session-ID	header		string				false	"ID покупательской сессии"
//	@Param		request			body		UpdateFieldRequest	true	"Имя и значение поля"
//	@Success	200				{object}	CheckoutResponse
//	@Failure	400				{object}	ErrorResponse	"Неизвестное поле"
//	@Failure	409				{object}	ErrorResponse	"Оформление не в режиме ввода формы"
//	@Router		/checkout/form [patch]
func (h *CheckoutHandler) updateField(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Field == "" {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	view, err := h.checkoutUsecase.UpdateField(r.Context(), SessionID(r), req.Field, req.Value)
	if err != nil {
		h.logger.Warnf("update field failed, field: %s: %s", req.Field, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewCheckoutResponse(view))
}

// submitCheckout
//
//	@Summary		Отправка заказа на оплату
//	@Description	Валидирует форму и запускает платёж. Результат платежа
//	@Description	асинхронный — клиент опрашивает статус оформления.
//	@Tags			checkout
//	@Produce		json
//	@Param			X-Session-ID	header		string	false	"ID покупательской сессии"
//	@Success		202				{object}	CheckoutResponse
//	@Failure		409				{object}	ErrorResponse		"Платёж уже выполняется"
//	@Failure		422				{object}	CheckoutResponse	"Ошибки валидации формы по полям"
//	@Router			/checkout/submit [post]
func (h *CheckoutHandler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutUsecase.Submit(r.Context(), SessionID(r))
	if err != nil {
		// Ошибки валидации возвращаются вместе с состоянием формы,
		// чтобы клиент мог подсветить конкретные поля
		if errors.Is(err, e.ErrFormValidation) && view != nil {
			WriteSuccess(w, http.StatusUnprocessableEntity, NewCheckoutResponse(view))
			return
		}

		h.logger.Warnf("submit checkout failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, NewCheckoutResponse(view))
}

// retryCheckout
//
//	@Summary	Возврат к форме после неудачного платежа
//	@Tags		checkout
//	@Produce	json
//	@Param		X-Session-ID	header		string	false	"ID покупательской сессии"
//	@Success	200				{object}	CheckoutResponse
//	@Failure	409				{object}	ErrorResponse	"Оформление не в состоянии failed"
//	@Router		/checkout/retry [post]
func (h *CheckoutHandler) retryCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutUsecase.Retry(r.Context(), SessionID(r))
	if err != nil {
		h.logger.Warnf("retry checkout failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewCheckoutResponse(view))
}

// cancelCheckout
//
//	@Summary		Отмена оформления
//	@Description	Уничтожает сессию оформления. Уже отправленный платёжный
//	@Description	запрос не прерывается, его поздний результат отбрасывается.
//	@Tags			checkout
//	@Produce		json
//	@Param			X-Session-ID	header	string	false	"ID покупательской сессии"
//	@Success		204
//	@Failure		409	{object}	ErrorResponse	"Оформление не открыто"
//	@Router			/checkout [delete]
func (h *CheckoutHandler) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.checkoutUsecase.Cancel(r.Context(), SessionID(r)); err != nil {
		h.logger.Warnf("cancel checkout failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkoutStatus
//
//	@Summary	Текущее состояние оформления
//	@Tags		checkout
//	@Produce	json
//	@Param		X-Session-ID	header		string	false	"ID покупательской сессии"
//	@Success	200				{object}	CheckoutResponse
//	@Router		/checkout [get]
func (h *CheckoutHandler) checkoutStatus(w http.ResponseWriter, r *http.Request) {
	view := h.checkoutUsecase.Status(r.Context(), SessionID(r))
	WriteSuccess(w, http.StatusOK, NewCheckoutResponse(view))
}
