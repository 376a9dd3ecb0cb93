// Package payment содержит способы оплаты записей: наличные и внешний процессор Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

var (
	// ErrNotImplemented возвращается процессором, интеграция с которым ещё не реализована.
	ErrNotImplemented = errors.New("payment processor not implemented")
	// ErrUnknownMethod возвращается для неизвестного способа оплаты.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// Processor проводит оплату записи выбранным способом.
type Processor interface {
	Method() model.PaymentMethod
	Charge(ctx context.Context, appointment model.Appointment, service model.Service) error
}

// Cash принимает оплату наличными в момент оказания услуги; подтверждение не требуется.
type Cash struct{}

// Method возвращает способ оплаты.
func (Cash) Method() model.PaymentMethod { return model.PaymentMethodCash }

// Charge всегда успешен.
func (Cash) Charge(ctx context.Context, _ model.Appointment, _ model.Service) error {
	return ctx.Err()
}

// Stripe проводит оплату через внешний процессор. Checkout пока не подключён.
type Stripe struct{}

// Method возвращает способ оплаты.
func (Stripe) Method() model.PaymentMethod { return model.PaymentMethodStripe }

// Charge возвращает ErrNotImplemented.
// TODO: создать Checkout Session и отмечать оплату по вебхуку checkout.session.completed.
func (Stripe) Charge(_ context.Context, _ model.Appointment, _ model.Service) error {
	return ErrNotImplemented
}

// Registry сопоставляет способы оплаты и процессоры.
type Registry struct {
	processors map[model.PaymentMethod]Processor
}

// NewRegistry создаёт реестр из указанных процессоров.
func NewRegistry(processors ...Processor) *Registry {
	r := &Registry{processors: make(map[model.PaymentMethod]Processor, len(processors))}
	for _, p := range processors {
		r.processors[p.Method()] = p
	}
	return r
}

// DefaultRegistry содержит наличные и Stripe.
func DefaultRegistry() *Registry {
	return NewRegistry(Cash{}, Stripe{})
}

// Processor возвращает процессор для способа оплаты.
func (r *Registry) Processor(method model.PaymentMethod) (Processor, error) {
	p, ok := r.processors[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return p, nil
}
