package payment

import (
	"github.com/nilecart/nile-pay/pkg/config"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/paymob"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/paypal"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/types"
)

type PaymentChannel interface {
	// 创建支付订单 - 只负责与服务商的握手，持久化由调用方完成
	CreatePayment(req *types.CreatePaymentRequest) (*types.CreatePaymentResult, error)

	// 向卖家打款
	Payout(req *types.PayoutRequest) error

	// 资源初始化
	Init() error

	// 获取渠道名称
	GetChannelName() string
}

func Get(channel string) PaymentChannel {
	return paymentChannels[channel]
}

var paymentChannels map[string]PaymentChannel

func Init(cfg *config.SettleConfig) error {
	paymentChannels = make(map[string]PaymentChannel)
	paymentChannels["paymob"] = paymob.New(cfg)
	if cfg.PayPal.Enabled {
		paymentChannels["paypal"] = paypal.New(cfg)
	}

	for _, channel := range paymentChannels {
		if err := channel.Init(); err != nil {
			return err
		}
	}
	return nil
}

// Register 注册支付渠道，宿主扩展渠道或测试时使用
func Register(name string, channel PaymentChannel) {
	if paymentChannels == nil {
		paymentChannels = make(map[string]PaymentChannel)
	}
	paymentChannels[name] = channel
}

// GetAvailableChannels 获取所有可用的支付渠道
func GetAvailableChannels() []string {
	channels := make([]string, 0, len(paymentChannels))
	for name := range paymentChannels {
		channels = append(channels, name)
	}
	return channels
}
