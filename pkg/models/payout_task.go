package models

import (
	"time"

	"github.com/nilecart/nile-pay/pkg/migration"
)

type PayoutStatus string

const (
	PayoutStatusQueued PayoutStatus = "queued"
	PayoutStatusSent   PayoutStatus = "sent"
	PayoutStatusFailed PayoutStatus = "failed"
)

// PayoutTask 打款任务发件箱记录，由对账写入、worker消费
type PayoutTask struct {
	ID        uint   `gorm:"primaryKey"`
	PaymentID uint   `gorm:"uniqueIndex"` // 每笔支付至多一条打款任务
	Channel   string `gorm:"size:50"`
	Reference string `gorm:"size:36;uniqueIndex"` // uuid，传给服务商做幂等标识

	MerchantID  string `gorm:"size:100"`
	AmountCents int64  `gorm:"not null"`
	Currency    string `gorm:"size:10"`
	Description string `gorm:"size:255"`

	Status        PayoutStatus `gorm:"size:20;default:'queued';index"`
	Attempts      int
	NextAttemptAt time.Time `gorm:"index"`
	LastError     string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	SentAt    *time.Time
}

func (t *PayoutTask) TableName() string {
	return "np_payout_tasks"
}

func init() {
	migration.RegisterAutoMigrateModels(&PayoutTask{})
}
