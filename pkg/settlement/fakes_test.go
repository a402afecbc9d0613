package settlement

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/nilecart/nile-pay/pkg/errors"
	ptypes "github.com/nilecart/nile-pay/pkg/extensions/payment/types"
	"github.com/nilecart/nile-pay/pkg/models"
)

type fakeLedgerStore struct {
	mu      sync.Mutex
	nextID  uint
	records map[string]*models.PaymentRecord
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{records: map[string]*models.PaymentRecord{}}
}

func (s *fakeLedgerStore) Create(record *models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	record.ID = s.nextID
	record.CreatedAt = time.Now()
	s.records[record.RemoteOrderID] = record
	return nil
}

func (s *fakeLedgerStore) FindByRemoteOrderID(remoteOrderID string) (*models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[remoteOrderID]
	if !ok {
		return nil, apperrors.ErrPaymentNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *fakeLedgerStore) MarkPaid(remoteOrderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[remoteOrderID]
	if !ok || record.Status != models.PaymentStatusPending {
		return false, nil
	}
	now := time.Now()
	record.Status = models.PaymentStatusPaid
	record.PaidAt = &now
	return true, nil
}

func (s *fakeLedgerStore) MarkFailed(remoteOrderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[remoteOrderID]
	if !ok || record.Status != models.PaymentStatusPending {
		return false, nil
	}
	record.Status = models.PaymentStatusFailed
	return true, nil
}

type fakeAccounts struct {
	sellers map[uint]*models.Seller
}

func (a *fakeAccounts) FindSellerByID(id uint) (*models.Seller, error) {
	seller, ok := a.sellers[id]
	if !ok {
		return nil, apperrors.ErrSellerNotFound
	}
	return seller, nil
}

type fakeChannel struct {
	name        string
	calls       int
	lastRequest *ptypes.CreatePaymentRequest
	failWith    error
	orderID     string
	payouts     []*ptypes.PayoutRequest
}

func (c *fakeChannel) Init() error { return nil }

func (c *fakeChannel) GetChannelName() string { return c.name }

func (c *fakeChannel) CreatePayment(req *ptypes.CreatePaymentRequest) (*ptypes.CreatePaymentResult, error) {
	c.calls++
	c.lastRequest = req
	if c.failWith != nil {
		return nil, c.failWith
	}
	return &ptypes.CreatePaymentResult{
		RemoteOrderID: c.orderID,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		Status:        "pending",
		RedirectURL:   fmt.Sprintf("https://pay.example.com/iframes/1?payment_token=tok-%s", c.orderID),
	}, nil
}

func (c *fakeChannel) Payout(req *ptypes.PayoutRequest) error {
	c.payouts = append(c.payouts, req)
	return nil
}

type fakeEnqueuer struct {
	tasks []*models.PayoutTask
}

func (e *fakeEnqueuer) Enqueue(task *models.PayoutTask) error {
	e.tasks = append(e.tasks, task)
	return nil
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }
