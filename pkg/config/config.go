package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

type SettleConfig struct {
	DatabaseDSN     string  `cfg:"DATABASE_DSN"`
	DefaultCurrency string  `cfg:"DEFAULT_CURRENCY" default:"EGP"`
	CommissionRate  float64 `cfg:"COMMISSION_RATE" default:"0.2"`

	// 支付服务配置
	Paymob struct {
		APIKey        string `cfg:"API_KEY"`
		IntegrationID string `cfg:"INTEGRATION_ID"`
		IframeID      string `cfg:"IFRAME_ID"`
		APIURL        string `cfg:"API_URL" default:"https://accept.paymob.com/api"`
		IframeBaseURL string `cfg:"IFRAME_BASE_URL" default:"https://accept.paymobsolutions.com/api/acceptance/iframes"`
		PayoutURL     string `cfg:"PAYOUT_URL"`
	} `cfg:"PAYMOB"`

	PayPal struct {
		Enabled      bool   `cfg:"ENABLED" default:"false"`
		ClientID     string `cfg:"CLIENT_ID"`
		ClientSecret string `cfg:"CLIENT_SECRET"`
		Live         bool   `cfg:"LIVE" default:"false"`
		ReturnURL    string `cfg:"RETURN_URL"`
		CancelURL    string `cfg:"CANCEL_URL"`
	} `cfg:"PAYPAL"`

	// 打款任务队列配置
	Payout struct {
		SQSQueueURL  string `cfg:"SQS_QUEUE_URL"`
		AWSRegion    string `cfg:"AWS_REGION"`
		AWSAccessKey string `cfg:"AWS_ACCESS_KEY"`
		AWSSecret    string `cfg:"AWS_SECRET"`
		MaxAttempts  int    `cfg:"MAX_ATTEMPTS" default:"5"`
		PollInterval int    `cfg:"POLL_INTERVAL" default:"10"`
	} `cfg:"PAYOUT"`
}

const envPrefix = "NILEPAY_"

// Load 从环境变量加载配置，键名由cfg标签拼接而成
// 例如 Paymob.APIKey 对应 NILEPAY_PAYMOB_API_KEY
func Load() *SettleConfig {
	cfg := &SettleConfig{}
	loadStruct(reflect.ValueOf(cfg).Elem(), envPrefix)
	return cfg
}

func loadStruct(v reflect.Value, prefix string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("cfg")
		if tag == "" {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			loadStruct(v.Field(i), prefix+tag+"_")
			continue
		}

		raw, ok := os.LookupEnv(prefix + tag)
		if !ok {
			raw = field.Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		switch field.Type.Kind() {
		case reflect.String:
			v.Field(i).SetString(raw)
		case reflect.Bool:
			v.Field(i).SetBool(cast.ToBool(strings.TrimSpace(raw)))
		case reflect.Int:
			v.Field(i).SetInt(int64(cast.ToInt(raw)))
		case reflect.Float64:
			v.Field(i).SetFloat(cast.ToFloat64(raw))
		}
	}
}
