package settlement

import (
	"errors"
	"time"

	apperrors "github.com/nilecart/nile-pay/pkg/errors"
	"github.com/nilecart/nile-pay/pkg/models"
	"gorm.io/gorm"
)

// LedgerStore 支付记录的持久化契约
// MarkPaid/MarkFailed 都是以pending为前提的条件更新，返回是否真正发生了状态迁移
type LedgerStore interface {
	Create(record *models.PaymentRecord) error
	FindByRemoteOrderID(remoteOrderID string) (*models.PaymentRecord, error)
	MarkPaid(remoteOrderID string) (bool, error)
	MarkFailed(remoteOrderID string) (bool, error)
}

// AccountResolver 卖家账号查询契约，由宿主系统的账号模块实现
type AccountResolver interface {
	FindSellerByID(id uint) (*models.Seller, error)
}

type GormLedgerStore struct {
	db *gorm.DB
}

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{db: db}
}

func (s *GormLedgerStore) Create(record *models.PaymentRecord) error {
	return s.db.Create(record).Error
}

func (s *GormLedgerStore) FindPaymentByID(id uint) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := s.db.First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormLedgerStore) FindByRemoteOrderID(remoteOrderID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := s.db.Where("remote_order_id = ?", remoteOrderID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkPaid 单语句条件更新实现pending→paid的CAS迁移
// 并发的重复webhook只有一个能拿到RowsAffected=1
func (s *GormLedgerStore) MarkPaid(remoteOrderID string) (bool, error) {
	now := time.Now()
	tx := s.db.Model(&models.PaymentRecord{}).
		Where("remote_order_id = ? AND status = ?", remoteOrderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": &now,
		})
	return tx.RowsAffected > 0, tx.Error
}

func (s *GormLedgerStore) MarkFailed(remoteOrderID string) (bool, error) {
	tx := s.db.Model(&models.PaymentRecord{}).
		Where("remote_order_id = ? AND status = ?", remoteOrderID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed)
	return tx.RowsAffected > 0, tx.Error
}

type GormAccountStore struct {
	db *gorm.DB
}

func NewGormAccountStore(db *gorm.DB) *GormAccountStore {
	return &GormAccountStore{db: db}
}

func (s *GormAccountStore) FindSellerByID(id uint) (*models.Seller, error) {
	var seller models.Seller
	err := s.db.Where("id = ?", id).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrSellerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}
