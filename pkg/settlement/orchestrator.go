package settlement

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nilecart/nile-pay/pkg/config"
	apperrors "github.com/nilecart/nile-pay/pkg/errors"
	"github.com/nilecart/nile-pay/pkg/extensions/payment"
	ptypes "github.com/nilecart/nile-pay/pkg/extensions/payment/types"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/utils"
	"github.com/nilecart/nile-pay/pkg/models"
	"github.com/nilecart/nile-pay/pkg/split"
	"github.com/shopspring/decimal"
)

const DefaultChannel = "paymob"

type CreatePaymentRequest struct {
	Amount           decimal.Decimal
	Currency         string
	Customer         ptypes.Customer
	ProductOwnerID   *uint
	RequestingUserID *uint // 宿主认证中间件解析出的当前登录用户
	Channel          string
}

type CreatePaymentResponse struct {
	IframeURL  string
	AdminShare decimal.Decimal
	OwnerShare decimal.Decimal
	Total      decimal.Decimal
	Currency   string
	PaymentID  string // HashID编码的支付记录ID
}

// Orchestrator 结算编排器：校验、卖家解析、分账计算、服务商握手、落库
type Orchestrator struct {
	cfg      *config.SettleConfig
	store    LedgerStore
	accounts AccountResolver
	calc     *split.Calculator

	getChannel func(name string) payment.PaymentChannel
}

func NewOrchestrator(cfg *config.SettleConfig, store LedgerStore, accounts AccountResolver) *Orchestrator {
	rate := cfg.CommissionRate
	if rate <= 0 || rate >= 1 {
		rate = 0.2
	}
	return &Orchestrator{
		cfg:        cfg,
		store:      store,
		accounts:   accounts,
		calc:       split.NewCalculator(rate),
		getChannel: payment.Get,
	}
}

// CreatePayment 发起一次结算：握手全部成功之后才写入pending记录
// 任何前置校验失败都发生在第一次外部调用之前
func (o *Orchestrator) CreatePayment(req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrAmountRequired
	}
	if req.ProductOwnerID == nil {
		return nil, apperrors.ErrOwnerRequired
	}

	seller, err := o.resolveSeller(req)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = o.cfg.DefaultCurrency
	}

	shares := o.calc.Calculate(req.Amount)

	channelName := req.Channel
	if channelName == "" {
		channelName = DefaultChannel
	}
	channel := o.getChannel(channelName)
	if channel == nil {
		return nil, apperrors.ErrChannelNotFound
	}

	slog.Info("[Orchestrator] Starting settlement handshake",
		"channel", channelName, "total", req.Amount.String(), "owner_id", seller.ID)

	result, err := channel.CreatePayment(&ptypes.CreatePaymentRequest{
		Reference:   uuid.NewString(),
		AmountCents: split.MinorUnits(req.Amount),
		Currency:    currency,
		Customer:    req.Customer,
		Description: "Marketplace checkout",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProviderHandshake, err)
	}

	snapshot, err := utils.SerializeCustomer(req.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize customer snapshot: %w", err)
	}

	ownerID := seller.ID
	record := &models.PaymentRecord{
		Channel:         channelName,
		TotalAmount:     req.Amount,
		AdminShare:      shares.AdminShare,
		OwnerShare:      shares.OwnerShare,
		Currency:        currency,
		RemoteOrderID:   result.RemoteOrderID,
		OwnerID:         &ownerID,
		OwnerMerchantID: seller.MerchantID,
		Customer:        snapshot,
		Status:          models.PaymentStatusPending,
	}
	if err := o.store.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	paymentID := utils.EncodePaymentID(record.ID)
	slog.Info("[Orchestrator] Settlement pending",
		"payment_id", paymentID, "remote_order_id", record.RemoteOrderID,
		"admin_share", shares.AdminShare.String(), "owner_share", shares.OwnerShare.String())

	return &CreatePaymentResponse{
		IframeURL:  result.RedirectURL,
		AdminShare: shares.AdminShare,
		OwnerShare: shares.OwnerShare,
		Total:      req.Amount,
		Currency:   currency,
		PaymentID:  paymentID,
	}, nil
}

// resolveSeller 解析卖家账号
// 原商品属主已被删除时回退到当前登录用户，这是对孤儿商品记录的兼容行为，不是安全边界
func (o *Orchestrator) resolveSeller(req *CreatePaymentRequest) (*models.Seller, error) {
	seller, err := o.accounts.FindSellerByID(*req.ProductOwnerID)
	if err == nil {
		return seller, nil
	}
	if !errors.Is(err, apperrors.ErrSellerNotFound) {
		return nil, err
	}

	if req.RequestingUserID == nil {
		return nil, apperrors.ErrAuthRequired
	}

	seller, err = o.accounts.FindSellerByID(*req.RequestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSellerNotFound) {
			return nil, apperrors.ErrAuthRequired
		}
		return nil, err
	}

	slog.Info("[Orchestrator] Product owner missing, falling back to requesting user",
		"product_owner_id", *req.ProductOwnerID, "user_id", seller.ID)
	return seller, nil
}
