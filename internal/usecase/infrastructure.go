package usecase

import "context"

// PaymentGateway — контракт внешнего платёжного шлюза.
// Charge выполняет не более одного списания за вызов; повторов внутри нет.
type PaymentGateway interface {
	Charge(ctx context.Context, req *ChargeReq) (*ChargeRes, error)
}

// OrderEventProducer публикует событие завершённого заказа во внешнюю шину.
type OrderEventProducer interface {
	PublishOrderCompleted(ctx context.Context, req *OrderCompletedReq) error
}
