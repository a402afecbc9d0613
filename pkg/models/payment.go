package models

import (
	"time"

	"github.com/nilecart/nile-pay/pkg/migration"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type PaymentRecord struct {
	ID      uint   `gorm:"primaryKey"`
	Channel string `gorm:"size:50"` // 支付渠道：paymob, paypal等

	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	AdminShare  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	OwnerShare  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Currency    string          `gorm:"size:10;default:'EGP'"`

	// 外部支付系统订单ID，webhook对账的唯一关联键
	RemoteOrderID string `gorm:"size:100;uniqueIndex"`

	OwnerID         *uint   `gorm:"index"`    // 卖家账号，原商品属主已删除时可为空
	OwnerMerchantID *string `gorm:"size:100"` // 卖家在支付服务商的打款目标，为空则无法分账

	// 下单时的账单联系人快照JSON，创建后不再变更
	Customer string `gorm:"type:text"`

	Status PaymentStatus `gorm:"size:20;default:'pending';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}

func (p *PaymentRecord) TableName() string {
	return "np_payments"
}

func init() {
	migration.RegisterAutoMigrateModels(&PaymentRecord{})
}
