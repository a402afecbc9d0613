package settlement

import (
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "github.com/nilecart/nile-pay/pkg/errors"
	"github.com/nilecart/nile-pay/pkg/events"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/utils"
	"github.com/nilecart/nile-pay/pkg/models"
	"github.com/nilecart/nile-pay/pkg/split"
	"github.com/nilecart/nile-pay/pkg/types"
)

type Outcome int

const (
	OutcomeNotFound Outcome = iota // 未匹配到本地记录，确认收到但不处理
	OutcomePaid                    // pending→paid 迁移完成，打款任务已入队
	OutcomeFailed                  // pending→failed 迁移完成
	OutcomeIgnored                 // 重复投递或状态已终结，幂等空操作
)

// Notification 服务商异步回调的归一化载荷
type Notification struct {
	Channel       string
	Success       bool
	RemoteOrderID string
}

// PayoutEnqueuer 打款任务入队契约，由payout发件箱实现
type PayoutEnqueuer interface {
	Enqueue(task *models.PayoutTask) error
}

// Reconciler 将异步支付结果对账到终态，并触发卖家打款
type Reconciler struct {
	store   LedgerStore
	payouts PayoutEnqueuer
}

func NewReconciler(store LedgerStore, payouts PayoutEnqueuer) *Reconciler {
	return &Reconciler{store: store, payouts: payouts}
}

// HandleNotification 处理一次webhook投递
// 状态迁移是以pending为前提的CAS，重复投递拿不到迁移权，因此打款至多发起一次
func (r *Reconciler) HandleNotification(n *Notification) (Outcome, error) {
	record, err := r.store.FindByRemoteOrderID(n.RemoteOrderID)
	if errors.Is(err, apperrors.ErrPaymentNotFound) {
		log.Printf("[Reconciler] No payment record for remote order %s, acknowledging", n.RemoteOrderID)
		return OutcomeNotFound, nil
	}
	if err != nil {
		return OutcomeIgnored, err
	}

	if !n.Success {
		return r.reconcileFailed(record)
	}
	return r.reconcilePaid(record)
}

func (r *Reconciler) reconcilePaid(record *models.PaymentRecord) (Outcome, error) {
	transitioned, err := r.store.MarkPaid(record.RemoteOrderID)
	if err != nil {
		return OutcomeIgnored, err
	}
	if !transitioned {
		log.Printf("[Reconciler] Payment %d already in terminal state, skipping payout", record.ID)
		return OutcomeIgnored, nil
	}

	now := time.Now()
	record.Status = models.PaymentStatusPaid
	record.PaidAt = &now

	paymentID := utils.EncodePaymentID(record.ID)

	if record.OwnerMerchantID == nil || *record.OwnerMerchantID == "" {
		// 无打款目标，平台暂留全款等待人工处理
		log.Printf("[Reconciler] Payment %s has no owner merchant id, skipping payout", paymentID)
	} else {
		task := &models.PayoutTask{
			PaymentID:   record.ID,
			Channel:     record.Channel,
			MerchantID:  *record.OwnerMerchantID,
			AmountCents: split.MinorUnits(record.OwnerShare),
			Currency:    record.Currency,
			Description: fmt.Sprintf("Payout for payment %s", paymentID),
		}
		if err := r.payouts.Enqueue(task); err != nil {
			// 打款入队失败不回滚已提交的paid状态
			log.Printf("[Reconciler] Failed to enqueue payout for payment %s: %v", paymentID, err)
		}
	}

	if err := utils.NotifyPaymentCompleted(nil, record); err != nil {
		log.Printf("[Reconciler] Failed to notify business system: %v", err)
	}

	return OutcomePaid, nil
}

func (r *Reconciler) reconcileFailed(record *models.PaymentRecord) (Outcome, error) {
	transitioned, err := r.store.MarkFailed(record.RemoteOrderID)
	if err != nil {
		return OutcomeIgnored, err
	}
	if !transitioned {
		return OutcomeIgnored, nil
	}

	log.Printf("[Reconciler] Payment %d marked failed for remote order %s", record.ID, record.RemoteOrderID)

	if err := events.EmitPaymentFailed(&types.PaymentFailedEvent{
		PaymentHashID: utils.EncodePaymentID(record.ID),
		Channel:       record.Channel,
		RemoteOrderID: record.RemoteOrderID,
		FailedAt:      time.Now(),
	}); err != nil {
		log.Printf("[Reconciler] Failed to emit payment failed event: %v", err)
	}

	return OutcomeFailed, nil
}
