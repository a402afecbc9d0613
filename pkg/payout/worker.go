package payout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nilecart/nile-pay/pkg/config"
	"github.com/nilecart/nile-pay/pkg/events"
	"github.com/nilecart/nile-pay/pkg/extensions/payment"
	ptypes "github.com/nilecart/nile-pay/pkg/extensions/payment/types"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/utils"
	"github.com/nilecart/nile-pay/pkg/models"
	"github.com/nilecart/nile-pay/pkg/types"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// Worker 消费打款任务：配置了SQS时长轮询队列，否则轮询数据库
// 打款失败指数退避重试，重试耗尽标记failed并通知业务系统，不回滚支付状态
type Worker struct {
	db          *gorm.DB
	queue       *Queue
	maxAttempts int
	interval    time.Duration

	getChannel func(name string) payment.PaymentChannel
}

func NewWorker(db *gorm.DB, queue *Queue, cfg *config.SettleConfig) *Worker {
	maxAttempts := cfg.Payout.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	interval := time.Duration(cfg.Payout.PollInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Worker{
		db:          db,
		queue:       queue,
		maxAttempts: maxAttempts,
		interval:    interval,
		getChannel:  payment.Get,
	}
}

func (w *Worker) Start(ctx context.Context) {
	if w.queue != nil {
		w.consumeQueue(ctx)
		return
	}
	w.pollLoop(ctx)
}

func (w *Worker) consumeQueue(ctx context.Context) {
	log.Printf("[PayoutWorker] Consuming payout queue")
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		messages, err := w.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[PayoutWorker] Error receiving from queue: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, message := range messages {
			taskID := cast.ToUint(*message.Body)
			if taskID == 0 {
				log.Printf("[PayoutWorker] Malformed message body: %s", *message.Body)
			} else if err := w.processTask(taskID); err != nil {
				log.Printf("[PayoutWorker] Error processing task %d: %v", taskID, err)
			}

			if err := w.queue.Delete(ctx, message.ReceiptHandle); err != nil {
				log.Printf("[PayoutWorker] Error deleting message: %v", err)
			}
		}
	}
}

func (w *Worker) pollLoop(ctx context.Context) {
	log.Printf("[PayoutWorker] Polling payout outbox every %s", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drainDue()
		}
	}
}

func (w *Worker) drainDue() {
	var tasks []models.PayoutTask
	err := w.db.Where("status = ? AND next_attempt_at <= ?", models.PayoutStatusQueued, time.Now()).
		Limit(10).Find(&tasks).Error
	if err != nil {
		log.Printf("[PayoutWorker] Error loading due tasks: %v", err)
		return
	}

	for i := range tasks {
		task := &tasks[i]
		w.attempt(task)
		if err := w.db.Save(task).Error; err != nil {
			log.Printf("[PayoutWorker] Error saving task %d: %v", task.ID, err)
		}
	}
}

func (w *Worker) processTask(taskID uint) error {
	var task models.PayoutTask
	if err := w.db.First(&task, taskID).Error; err != nil {
		return fmt.Errorf("task not found: %w", err)
	}
	if task.Status != models.PayoutStatusQueued {
		log.Printf("[PayoutWorker] Task %d already %s, skipping", task.ID, task.Status)
		return nil
	}

	w.attempt(&task)
	return w.db.Save(&task).Error
}

// attempt 执行一次打款尝试并更新任务字段，持久化由调用方负责
func (w *Worker) attempt(task *models.PayoutTask) {
	channel := w.getChannel(task.Channel)
	if channel == nil {
		task.Status = models.PayoutStatusFailed
		task.LastError = fmt.Sprintf("payment channel '%s' not found", task.Channel)
		w.emitFailed(task)
		return
	}

	err := channel.Payout(&ptypes.PayoutRequest{
		MerchantID:  task.MerchantID,
		AmountCents: task.AmountCents,
		Currency:    task.Currency,
		Description: task.Description,
		Reference:   task.Reference,
	})
	if err == nil {
		now := time.Now()
		task.Status = models.PayoutStatusSent
		task.SentAt = &now
		log.Printf("[PayoutWorker] Task %d sent - %d %s to merchant %s",
			task.ID, task.AmountCents, task.Currency, task.MerchantID)
		if emitErr := events.EmitPayoutSent(&types.PayoutSentEvent{
			TaskID:        task.ID,
			PaymentHashID: utils.EncodePaymentID(task.PaymentID),
			Reference:     task.Reference,
			MerchantID:    task.MerchantID,
			AmountCents:   task.AmountCents,
			Currency:      task.Currency,
		}); emitErr != nil {
			log.Printf("[PayoutWorker] Error emitting payout sent event: %v", emitErr)
		}
		return
	}

	task.Attempts++
	task.LastError = err.Error()
	if task.Attempts >= w.maxAttempts {
		task.Status = models.PayoutStatusFailed
		log.Printf("[PayoutWorker] Task %d failed after %d attempts: %v", task.ID, task.Attempts, err)
		w.emitFailed(task)
		return
	}

	task.NextAttemptAt = time.Now().Add(backoff(task.Attempts))
	log.Printf("[PayoutWorker] Task %d attempt %d failed, retrying at %s: %v",
		task.ID, task.Attempts, task.NextAttemptAt.Format(time.RFC3339), err)
}

func (w *Worker) emitFailed(task *models.PayoutTask) {
	if err := events.EmitPayoutFailed(&types.PayoutFailedEvent{
		TaskID:        task.ID,
		PaymentHashID: utils.EncodePaymentID(task.PaymentID),
		Reference:     task.Reference,
		MerchantID:    task.MerchantID,
		AmountCents:   task.AmountCents,
		Currency:      task.Currency,
		LastError:     task.LastError,
	}); err != nil {
		log.Printf("[PayoutWorker] Error emitting payout failed event: %v", err)
	}
}

func backoff(attempts int) time.Duration {
	// 8次以上必然超过1小时上限，限制位移避免溢出
	if attempts > 8 {
		return time.Hour
	}
	d := 30 * time.Second << uint(attempts-1)
	if d > time.Hour {
		return time.Hour
	}
	return d
}
