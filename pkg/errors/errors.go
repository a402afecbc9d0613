package errors

import "github.com/flaboy/pin/usererrors"

// 结算相关错误
var (
	ErrAmountRequired    = usererrors.New("settlement.amount_required", "Amount is required and must be positive")
	ErrOwnerRequired     = usererrors.New("settlement.owner_required", "Product owner is required")
	ErrAuthRequired      = usererrors.New("settlement.auth_required", "Authentication required")
	ErrChannelNotFound   = usererrors.New("settlement.channel_not_found", "Payment channel not found")
	ErrProviderHandshake = usererrors.New("settlement.provider_handshake_failed", "Payment provider handshake failed")
	ErrPaymentNotFound   = usererrors.New("settlement.payment_not_found", "Payment record not found")
	ErrSellerNotFound    = usererrors.New("settlement.seller_not_found", "Seller account not found")
)
