package models

import (
	"time"

	"github.com/nilecart/nile-pay/pkg/migration"
)

type Seller struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:255"`
	Email      string  `gorm:"size:255;index"`
	MerchantID *string `gorm:"size:100"` // 支付服务商注册的打款目标标识
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s *Seller) TableName() string {
	return "np_sellers"
}

func init() {
	migration.RegisterAutoMigrateModels(&Seller{})
}
