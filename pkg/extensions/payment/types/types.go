package types

// Customer 账单联系人信息
type Customer struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

// CreatePaymentRequest 发起收款请求
type CreatePaymentRequest struct {
	Reference   string   `json:"reference"` // 本地生成的关联标识
	AmountCents int64    `json:"amount_cents"`
	Currency    string   `json:"currency"`
	Customer    Customer `json:"customer"`
	Description string   `json:"description"`
}

// CreatePaymentResult 创建支付结果
type CreatePaymentResult struct {
	Success       bool   `json:"success"`
	RemoteOrderID string `json:"remote_order_id"` // 外部支付系统的订单ID
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`       // pending, created等
	RedirectURL   string `json:"redirect_url"` // 需要用户跳转的URL
	Message       string `json:"message"`      // 状态消息
}

// PayoutRequest 向卖家打款请求
type PayoutRequest struct {
	MerchantID  string `json:"merchant_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}
