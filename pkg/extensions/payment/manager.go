package payment

import (
	"fmt"
	"log/slog"

	"github.com/nilecart/nile-pay/pkg/extensions/payment/types"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/utils"
	"github.com/nilecart/nile-pay/pkg/models"
)

// RecordStore 支付记录按ID查询契约，由结算存储实现
type RecordStore interface {
	FindPaymentByID(id uint) (*models.PaymentRecord, error)
}

// PaymentManager 支付管理器
type PaymentManager struct {
	records RecordStore
}

// NewPaymentManager 创建支付管理器
func NewPaymentManager(records RecordStore) *PaymentManager {
	return &PaymentManager{records: records}
}

// CreatePayment 创建支付订单
func (pm *PaymentManager) CreatePayment(channel string, req *types.CreatePaymentRequest) (*types.CreatePaymentResult, error) {
	paymentChannel := Get(channel)
	if paymentChannel == nil {
		return nil, fmt.Errorf("payment channel '%s' not found", channel)
	}

	slog.Info("[PaymentManager] Calling CreatePayment", "channel", channel, "amount_cents", req.AmountCents)
	result, err := paymentChannel.CreatePayment(req)
	if err != nil {
		return nil, err
	}
	slog.Info("[PaymentManager] CreatePayment returned", "channel", channel, "remote_order_id", result.RemoteOrderID)

	return result, nil
}

// Payout 通过指定渠道向卖家打款
func (pm *PaymentManager) Payout(channel string, req *types.PayoutRequest) error {
	paymentChannel := Get(channel)
	if paymentChannel == nil {
		return fmt.Errorf("payment channel '%s' not found", channel)
	}

	slog.Info("[PaymentManager] Calling Payout", "channel", channel, "merchant_id", req.MerchantID, "amount_cents", req.AmountCents)
	return paymentChannel.Payout(req)
}

// GetPaymentRecord 根据HashID获取支付记录
func (pm *PaymentManager) GetPaymentRecord(paymentHashID string) (*models.PaymentRecord, error) {
	paymentID, err := utils.DecodePaymentHashID(paymentHashID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment hash ID: %w", err)
	}

	record, err := pm.records.FindPaymentByID(paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment record not found: %w", err)
	}

	return record, nil
}
