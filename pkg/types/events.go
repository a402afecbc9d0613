package types

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentCompletedEvent 支付完成事件，webhook对账成功后触发
type PaymentCompletedEvent struct {
	TX            *gorm.DB
	PaymentHashID string          `json:"payment_hash_id"`
	Channel       string          `json:"channel"` // paymob, paypal等
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AdminShare    decimal.Decimal `json:"admin_share"`
	OwnerShare    decimal.Decimal `json:"owner_share"`
	Currency      string          `json:"currency"`
	RemoteOrderID string          `json:"remote_order_id"`
	OwnerID       *uint           `json:"owner_id"`
	CompletedAt   time.Time       `json:"completed_at"`
}

// PaymentFailedEvent 支付失败事件，服务商回调success=false时触发
type PaymentFailedEvent struct {
	PaymentHashID string    `json:"payment_hash_id"`
	Channel       string    `json:"channel"`
	RemoteOrderID string    `json:"remote_order_id"`
	FailedAt      time.Time `json:"failed_at"`
}

// PayoutSentEvent 打款成功事件
type PayoutSentEvent struct {
	TaskID        uint   `json:"task_id"`
	PaymentHashID string `json:"payment_hash_id"`
	Reference     string `json:"reference"`
	MerchantID    string `json:"merchant_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
}

// PayoutFailedEvent 打款重试耗尽事件，需要人工介入
type PayoutFailedEvent struct {
	TaskID        uint   `json:"task_id"`
	PaymentHashID string `json:"payment_hash_id"`
	Reference     string `json:"reference"`
	MerchantID    string `json:"merchant_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	LastError     string `json:"last_error"`
}
