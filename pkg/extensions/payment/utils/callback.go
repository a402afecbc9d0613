package utils

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nilecart/nile-pay/pkg/events"
	"github.com/nilecart/nile-pay/pkg/hashid"
	"github.com/nilecart/nile-pay/pkg/models"
	"github.com/nilecart/nile-pay/pkg/types"

	"gorm.io/gorm"
)

var HashIDTypePayment = hashid.NewType("pm-", "payment", 6)

// DecodePaymentHashID 解码支付HashID获取数据库ID
func DecodePaymentHashID(hashID string) (uint, error) {
	return hashid.Decode(HashIDTypePayment, hashID)
}

// EncodePaymentID 编码数据库ID为HashID
func EncodePaymentID(id uint) string {
	return hashid.Encode(HashIDTypePayment, id)
}

// SerializeCustomer 序列化账单联系人快照为JSON字符串
func SerializeCustomer(customer interface{}) (string, error) {
	data, err := json.Marshal(customer)
	return string(data), err
}

// DeserializeCustomer 反序列化JSON字符串为联系人快照
func DeserializeCustomer(data string, target interface{}) error {
	return json.Unmarshal([]byte(data), target)
}

// NotifyPaymentCompleted 通知业务系统支付已完成
// tx 为当前事务，如果传入nil则由处理器自行决定
func NotifyPaymentCompleted(tx *gorm.DB, record *models.PaymentRecord) error {
	log.Printf("[NotifyPaymentCompleted] Starting notification - PaymentID: %d, Total: %s",
		record.ID, record.TotalAmount.String())

	event := &types.PaymentCompletedEvent{
		TX:            tx,
		PaymentHashID: EncodePaymentID(record.ID),
		Channel:       record.Channel,
		TotalAmount:   record.TotalAmount,
		AdminShare:    record.AdminShare,
		OwnerShare:    record.OwnerShare,
		Currency:      record.Currency,
		RemoteOrderID: record.RemoteOrderID,
		OwnerID:       record.OwnerID,
	}

	if record.PaidAt != nil {
		event.CompletedAt = *record.PaidAt
	} else {
		event.CompletedAt = time.Now()
	}

	// 触发事件，业务系统在此清空购物车、更新订单状态
	return events.EmitPaymentCompleted(event)
}
