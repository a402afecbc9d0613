package paymob

type authRequest struct {
	APIKey string `json:"api_key"`
}

type authResponse struct {
	Token string `json:"token"`
}

type orderRequest struct {
	AuthToken      string        `json:"auth_token"`
	DeliveryNeeded bool          `json:"delivery_needed"`
	AmountCents    int64         `json:"amount_cents"`
	Currency       string        `json:"currency"`
	Items          []interface{} `json:"items"`
}

type orderResponse struct {
	ID int64 `json:"id"`
}

// billingData 服务商要求完整账单地址，平台不采集地址字段，统一填NA占位
type billingData struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Apartment   string `json:"apartment"`
	Floor       string `json:"floor"`
	Street      string `json:"street"`
	Building    string `json:"building"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

type paymentKeyRequest struct {
	AuthToken     string      `json:"auth_token"`
	AmountCents   int64       `json:"amount_cents"`
	Expiration    int         `json:"expiration"`
	OrderID       int64       `json:"order_id"`
	BillingData   billingData `json:"billing_data"`
	Currency      string      `json:"currency"`
	IntegrationID string      `json:"integration_id"`
}

type paymentKeyResponse struct {
	Token string `json:"token"`
}

type payoutRequest struct {
	MerchantID  string `json:"merchant_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}
