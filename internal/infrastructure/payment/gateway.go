package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jimlawless/whereami"
	"github.com/techstore/storefront-backend/internal/cfg"
	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

// Gateway — HTTP-клиент внешнего платёжного шлюза.
// Таймаут запроса контролируется переданным контекстом, а не клиентом.
type Gateway struct {
	httpClient *http.Client
	cfg        *cfg.PaymentCfg
	logger     logger.Logger
}

func NewGateway(cfg *cfg.PaymentCfg, logger logger.Logger) *Gateway {
	return &Gateway{
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logger,
	}
}

type chargeRequest struct {
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
	Email          string `json:"email"`
	IdempotencyKey string `json:"idempotency_key"`
}

type chargeResponse struct {
	ConfirmationID string `json:"confirmation_id"`
	Declined       bool   `json:"declined"`
	Reason         string `json:"reason"`
}

// Charge проводит платёж через шлюз.
// Отклонённый платёж (HTTP 402) возвращается как e.ErrPaymentDeclined,
// обёрнутый причиной отказа шлюза.
func (g *Gateway) Charge(ctx context.Context, req *usecase.ChargeReq) (*usecase.ChargeRes, error) {
	body, err := json.Marshal(&chargeRequest{
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		CardNumber:     req.CardNumber,
		ExpiryDate:     req.ExpiryDate,
		CVV:            req.CVV,
		Email:          req.Email,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	url := fmt.Sprintf("%s/v1/charges", g.cfg.Addr)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var out chargeResponse
		if err := json.Unmarshal(respBody, &out); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		return &usecase.ChargeRes{ConfirmationID: out.ConfirmationID}, nil
	case http.StatusPaymentRequired:
		var out chargeResponse
		if err := json.Unmarshal(respBody, &out); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		g.logger.Warnf("payment declined: %s", out.Reason)
		return nil, fmt.Errorf("%s: %w", out.Reason, e.ErrPaymentDeclined)
	default:
		return nil, e.Wrap(whereami.WhereAmI(),
			fmt.Errorf("payment gateway returned status %d", resp.StatusCode))
	}
}
