package paypal

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nilecart/nile-pay/pkg/config"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/types"
	"github.com/plutov/paypal/v4"
)

type PayPal struct {
	cfg    *config.SettleConfig
	client *paypal.Client
}

func New(cfg *config.SettleConfig) *PayPal {
	return &PayPal{cfg: cfg}
}

// Init 初始化PayPal客户端
func (p *PayPal) Init() error {
	environment := paypal.APIBaseSandBox
	if p.cfg.PayPal.Live {
		environment = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(
		p.cfg.PayPal.ClientID,
		p.cfg.PayPal.ClientSecret,
		environment,
	)
	if err != nil {
		return err
	}

	// 获取访问令牌
	_, err = client.GetAccessToken(context.Background())
	if err != nil {
		return err
	}

	p.client = client
	log.Printf("PayPal payment channel initialized successfully")
	return nil
}

// GetChannelName 获取渠道名称
func (p *PayPal) GetChannelName() string {
	return "paypal"
}

// CreatePayment 创建PayPal收款订单，返回批准URL供买家跳转
func (p *PayPal) CreatePayment(req *types.CreatePaymentRequest) (*types.CreatePaymentResult, error) {
	log.Printf("[PayPal CreatePayment] Starting payment creation - amount_cents: %d, currency: %s", req.AmountCents, req.Currency)

	ctx := context.Background()
	amountFloat := float64(req.AmountCents) / 100 // 转换为元

	purchaseUnits := []paypal.PurchaseUnitRequest{
		{
			ReferenceID: req.Reference,
			Amount: &paypal.PurchaseUnitAmount{
				Currency: strings.ToUpper(req.Currency),
				Value:    fmt.Sprintf("%.2f", amountFloat),
			},
			Description: req.Description,
		},
	}

	applicationContext := &paypal.ApplicationContext{
		ReturnURL: p.cfg.PayPal.ReturnURL,
		CancelURL: p.cfg.PayPal.CancelURL,
	}

	order, err := p.client.CreateOrder(ctx, "CAPTURE", purchaseUnits, nil, applicationContext)
	if err != nil {
		return nil, fmt.Errorf("failed to create PayPal order: %w", err)
	}

	approvalURL := p.getApprovalURL(order)
	if approvalURL == "" {
		return nil, fmt.Errorf("failed to get PayPal approval URL")
	}

	return &types.CreatePaymentResult{
		Success:       false, // PayPal需要用户重定向，所以Success为false
		RemoteOrderID: order.ID,
		AmountCents:   req.AmountCents,
		Currency:      strings.ToUpper(req.Currency),
		Status:        "pending",
		RedirectURL:   approvalURL,
		Message:       "Please complete payment on PayPal",
	}, nil
}

// Payout 通过PayPal Payouts API向卖家打款
func (p *PayPal) Payout(req *types.PayoutRequest) error {
	payout := paypal.Payout{
		SenderBatchHeader: &paypal.SenderBatchHeader{
			SenderBatchID: req.Reference,
			EmailSubject:  "You have received a marketplace payout",
		},
		Items: []paypal.PayoutItem{
			{
				RecipientType: "EMAIL",
				Receiver:      req.MerchantID,
				Amount: &paypal.AmountPayout{
					Currency: strings.ToUpper(req.Currency),
					Value:    fmt.Sprintf("%.2f", float64(req.AmountCents)/100),
				},
				Note:         req.Description,
				SenderItemID: req.Reference,
			},
		},
	}

	_, err := p.client.CreatePayout(context.Background(), payout)
	if err != nil {
		return fmt.Errorf("failed to create PayPal payout: %w", err)
	}

	log.Printf("[PayPal Payout] Disbursed %d %s to %s", req.AmountCents, req.Currency, req.MerchantID)
	return nil
}

// getApprovalURL 从PayPal订单链接中获取批准URL
func (p *PayPal) getApprovalURL(order *paypal.Order) string {
	for _, link := range order.Links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}
