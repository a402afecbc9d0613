package payout

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nilecart/nile-pay/pkg/models"
	"gorm.io/gorm"
)

// Outbox 打款任务发件箱：先落库，再尽力投递到队列
// 队列投递失败任务仍留在queued状态，由worker轮询兜底
type Outbox struct {
	db    *gorm.DB
	queue *Queue
}

func NewOutbox(db *gorm.DB, queue *Queue) *Outbox {
	return &Outbox{db: db, queue: queue}
}

func (o *Outbox) Enqueue(task *models.PayoutTask) error {
	task.Status = models.PayoutStatusQueued
	task.Reference = uuid.NewString()
	task.NextAttemptAt = time.Now()

	if err := o.db.Create(task).Error; err != nil {
		return err
	}

	if o.queue != nil {
		if err := o.queue.Send(task.ID); err != nil {
			log.Printf("[PayoutOutbox] Failed to publish task %d to queue: %v", task.ID, err)
		}
	}

	log.Printf("[PayoutOutbox] Queued payout task %d - %d %s to merchant %s",
		task.ID, task.AmountCents, task.Currency, task.MerchantID)
	return nil
}
