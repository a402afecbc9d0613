package paymob

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/nilecart/nile-pay/pkg/config"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/types"
	"github.com/valyala/fasthttp"
)

type Paymob struct {
	cfg *config.SettleConfig
}

func New(cfg *config.SettleConfig) *Paymob {
	return &Paymob{cfg: cfg}
}

// Init 初始化Paymob渠道
func (p *Paymob) Init() error {
	if p.cfg.Paymob.APIKey == "" {
		return fmt.Errorf("paymob API key is not configured")
	}
	if p.cfg.Paymob.IntegrationID == "" || p.cfg.Paymob.IframeID == "" {
		return fmt.Errorf("paymob integration/iframe id is not configured")
	}

	log.Printf("Paymob payment channel initialized successfully")
	return nil
}

// GetChannelName 获取渠道名称
func (p *Paymob) GetChannelName() string {
	return "paymob"
}

// CreatePayment 执行Paymob三步握手：换取auth token、创建远端订单、创建payment key
// 任何一步失败整个流程中止，不创建本地记录、不重试
func (p *Paymob) CreatePayment(req *types.CreatePaymentRequest) (*types.CreatePaymentResult, error) {
	log.Printf("[Paymob CreatePayment] Starting handshake - amount_cents: %d, currency: %s", req.AmountCents, req.Currency)

	authToken, err := p.getAuthToken()
	if err != nil {
		return nil, fmt.Errorf("paymob auth failed: %w", err)
	}

	orderID, err := p.createOrder(authToken, req.AmountCents, req.Currency)
	if err != nil {
		return nil, fmt.Errorf("paymob order creation failed: %w", err)
	}

	paymentKey, err := p.createPaymentKey(authToken, orderID, req.AmountCents, req.Customer, req.Currency)
	if err != nil {
		return nil, fmt.Errorf("paymob payment key creation failed: %w", err)
	}

	iframeURL := fmt.Sprintf("%s/%s?payment_token=%s", p.cfg.Paymob.IframeBaseURL, p.cfg.Paymob.IframeID, paymentKey)

	log.Printf("[Paymob CreatePayment] Handshake complete - remote order: %d", orderID)

	return &types.CreatePaymentResult{
		Success:       false, // 需要用户跳转到iframe完成支付
		RemoteOrderID: strconv.FormatInt(orderID, 10),
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		Status:        "pending",
		RedirectURL:   iframeURL,
		Message:       "Please complete payment on Paymob",
	}, nil
}

// Payout 调用服务商打款接口，向卖家商户号结算
func (p *Paymob) Payout(req *types.PayoutRequest) error {
	if p.cfg.Paymob.PayoutURL == "" {
		return fmt.Errorf("paymob payout URL is not configured")
	}

	body := payoutRequest{
		MerchantID:  req.MerchantID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
	}

	status, respBody, err := p.postJSON(p.cfg.Paymob.PayoutURL, body, "Token "+p.cfg.Paymob.APIKey)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("paymob payout rejected, status code: %d, body: %s", status, respBody)
	}

	log.Printf("[Paymob Payout] Disbursed %d %s to merchant %s", req.AmountCents, req.Currency, req.MerchantID)
	return nil
}

// getAuthToken 第一步：静态API key换取短期auth token
func (p *Paymob) getAuthToken() (string, error) {
	status, body, err := p.postJSON(p.cfg.Paymob.APIURL+"/auth/tokens", authRequest{APIKey: p.cfg.Paymob.APIKey}, "")
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("unexpected status code: %d", status)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("empty auth token in response")
	}

	return resp.Token, nil
}

// createOrder 第二步：创建远端订单，不附带行项目
func (p *Paymob) createOrder(authToken string, amountCents int64, currency string) (int64, error) {
	reqBody := orderRequest{
		AuthToken:      authToken,
		DeliveryNeeded: false,
		AmountCents:    amountCents,
		Currency:       currency,
		Items:          []interface{}{},
	}

	status, body, err := p.postJSON(p.cfg.Paymob.APIURL+"/ecommerce/orders", reqBody, "")
	if err != nil {
		return 0, err
	}
	if status < 200 || status >= 300 {
		return 0, fmt.Errorf("unexpected status code: %d", status)
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}
	if resp.ID == 0 {
		return 0, fmt.Errorf("missing order id in response")
	}

	return resp.ID, nil
}

// createPaymentKey 第三步：用订单ID和账单快照换取一次性payment token
func (p *Paymob) createPaymentKey(authToken string, orderID int64, amountCents int64, customer types.Customer, currency string) (string, error) {
	billing := billingData{
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		PhoneNumber: customer.PhoneNumber,
		Email:       customer.Email,
		Apartment:   "NA",
		Floor:       "NA",
		Street:      "NA",
		Building:    "NA",
		City:        "NA",
		Country:     "EG",
	}
	if billing.FirstName == "" {
		billing.FirstName = "Customer"
	}
	if billing.LastName == "" {
		billing.LastName = "User"
	}
	if billing.PhoneNumber == "" {
		billing.PhoneNumber = "01000000000"
	}
	if billing.Email == "" {
		billing.Email = "customer@example.com"
	}

	reqBody := paymentKeyRequest{
		AuthToken:     authToken,
		AmountCents:   amountCents,
		Expiration:    3600,
		OrderID:       orderID,
		BillingData:   billing,
		Currency:      currency,
		IntegrationID: p.cfg.Paymob.IntegrationID,
	}

	status, body, err := p.postJSON(p.cfg.Paymob.APIURL+"/acceptance/payment_keys", reqBody, "")
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("unexpected status code: %d", status)
	}

	var resp paymentKeyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("empty payment token in response")
	}

	return resp.Token, nil
}

func (p *Paymob) postJSON(url string, payload interface{}, authorization string) (int, []byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod("POST")
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.SetBody(requestBody)

	if err := fasthttp.Do(req, resp); err != nil {
		return 0, nil, err
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return resp.StatusCode(), body, nil
}
