package events

import "github.com/nilecart/nile-pay/pkg/types"

type EventHandler interface {
	OnPaymentCompleted(event *types.PaymentCompletedEvent) error
	OnPaymentFailed(event *types.PaymentFailedEvent) error
	OnPayoutSent(event *types.PayoutSentEvent) error
	OnPayoutFailed(event *types.PayoutFailedEvent) error
}

var handler EventHandler

func SetEventHandler(h EventHandler) {
	handler = h
}

func EmitPaymentCompleted(event *types.PaymentCompletedEvent) error {
	if handler != nil {
		return handler.OnPaymentCompleted(event)
	}
	return nil
}

func EmitPaymentFailed(event *types.PaymentFailedEvent) error {
	if handler != nil {
		return handler.OnPaymentFailed(event)
	}
	return nil
}

func EmitPayoutSent(event *types.PayoutSentEvent) error {
	if handler != nil {
		return handler.OnPayoutSent(event)
	}
	return nil
}

func EmitPayoutFailed(event *types.PayoutFailedEvent) error {
	if handler != nil {
		return handler.OnPayoutFailed(event)
	}
	return nil
}
