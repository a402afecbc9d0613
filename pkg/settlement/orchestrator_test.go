package settlement

import (
	"errors"
	"testing"

	"github.com/nilecart/nile-pay/pkg/config"
	apperrors "github.com/nilecart/nile-pay/pkg/errors"
	"github.com/nilecart/nile-pay/pkg/extensions/payment"
	"github.com/nilecart/nile-pay/pkg/models"
	"github.com/shopspring/decimal"
)

func testOrchestrator(store LedgerStore, accounts AccountResolver, channel *fakeChannel) *Orchestrator {
	cfg := &config.SettleConfig{DefaultCurrency: "EGP", CommissionRate: 0.2}
	o := NewOrchestrator(cfg, store, accounts)
	o.getChannel = func(name string) payment.PaymentChannel {
		if name == channel.name {
			return channel
		}
		return nil
	}
	return o
}

func TestCreatePayment(t *testing.T) {
	store := newFakeLedgerStore()
	accounts := &fakeAccounts{sellers: map[uint]*models.Seller{
		7: {ID: 7, Name: "Seller", MerchantID: strPtr("M1")},
	}}
	channel := &fakeChannel{name: "paymob", orderID: "9001"}

	o := testOrchestrator(store, accounts, channel)
	resp, err := o.CreatePayment(&CreatePaymentRequest{
		Amount:         decimal.NewFromInt(250),
		ProductOwnerID: uintPtr(7),
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if resp.AdminShare.String() != "50" || resp.OwnerShare.String() != "200" {
		t.Errorf("shares: got %s / %s, want 50 / 200", resp.AdminShare, resp.OwnerShare)
	}
	if resp.Currency != "EGP" {
		t.Errorf("currency: got %s, want default EGP", resp.Currency)
	}
	if resp.IframeURL == "" || resp.PaymentID == "" {
		t.Errorf("missing iframe url or payment id: %+v", resp)
	}

	record, err := store.FindByRemoteOrderID("9001")
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if record.Status != models.PaymentStatusPending {
		t.Errorf("status: got %s, want pending", record.Status)
	}
	if record.OwnerMerchantID == nil || *record.OwnerMerchantID != "M1" {
		t.Errorf("owner merchant id: got %v, want M1", record.OwnerMerchantID)
	}
	if !record.AdminShare.Add(record.OwnerShare).Equal(record.TotalAmount) {
		t.Errorf("share sum invariant violated: %s + %s != %s",
			record.AdminShare, record.OwnerShare, record.TotalAmount)
	}

	if channel.calls != 1 {
		t.Errorf("channel calls: got %d, want 1", channel.calls)
	}
	if channel.lastRequest.AmountCents != 25000 {
		t.Errorf("amount cents: got %d, want 25000", channel.lastRequest.AmountCents)
	}
}

func TestCreatePaymentRejectsMissingAmount(t *testing.T) {
	store := newFakeLedgerStore()
	channel := &fakeChannel{name: "paymob", orderID: "1"}
	o := testOrchestrator(store, &fakeAccounts{sellers: map[uint]*models.Seller{}}, channel)

	_, err := o.CreatePayment(&CreatePaymentRequest{ProductOwnerID: uintPtr(1)})
	if !errors.Is(err, apperrors.ErrAmountRequired) {
		t.Fatalf("expected ErrAmountRequired, got %v", err)
	}
	if channel.calls != 0 {
		t.Errorf("no external call expected, got %d", channel.calls)
	}
	if len(store.records) != 0 {
		t.Errorf("no record should be created")
	}
}

func TestCreatePaymentRejectsMissingOwner(t *testing.T) {
	channel := &fakeChannel{name: "paymob", orderID: "1"}
	o := testOrchestrator(newFakeLedgerStore(), &fakeAccounts{sellers: map[uint]*models.Seller{}}, channel)

	_, err := o.CreatePayment(&CreatePaymentRequest{Amount: decimal.NewFromInt(10)})
	if !errors.Is(err, apperrors.ErrOwnerRequired) {
		t.Fatalf("expected ErrOwnerRequired, got %v", err)
	}
	if channel.calls != 0 {
		t.Errorf("no external call expected, got %d", channel.calls)
	}
}

// 原商品属主已删除时回退到当前登录用户——孤儿商品的兼容行为，需要显式覆盖
func TestCreatePaymentFallsBackToRequestingUser(t *testing.T) {
	store := newFakeLedgerStore()
	accounts := &fakeAccounts{sellers: map[uint]*models.Seller{
		3: {ID: 3, Name: "Requester", MerchantID: strPtr("M3")},
	}}
	channel := &fakeChannel{name: "paymob", orderID: "42"}

	o := testOrchestrator(store, accounts, channel)
	_, err := o.CreatePayment(&CreatePaymentRequest{
		Amount:           decimal.NewFromInt(100),
		ProductOwnerID:   uintPtr(99), // 已删除的属主
		RequestingUserID: uintPtr(3),
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	record, _ := store.FindByRemoteOrderID("42")
	if record.OwnerID == nil || *record.OwnerID != 3 {
		t.Errorf("owner id: got %v, want fallback to 3", record.OwnerID)
	}
	if record.OwnerMerchantID == nil || *record.OwnerMerchantID != "M3" {
		t.Errorf("merchant id: got %v, want M3", record.OwnerMerchantID)
	}
}

func TestCreatePaymentRejectsWhenNoSellerAndNoUser(t *testing.T) {
	channel := &fakeChannel{name: "paymob", orderID: "1"}
	o := testOrchestrator(newFakeLedgerStore(), &fakeAccounts{sellers: map[uint]*models.Seller{}}, channel)

	_, err := o.CreatePayment(&CreatePaymentRequest{
		Amount:         decimal.NewFromInt(100),
		ProductOwnerID: uintPtr(99),
	})
	if !errors.Is(err, apperrors.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if channel.calls != 0 {
		t.Errorf("no external call expected before seller resolution, got %d", channel.calls)
	}
}

func TestCreatePaymentWithoutMerchantID(t *testing.T) {
	store := newFakeLedgerStore()
	accounts := &fakeAccounts{sellers: map[uint]*models.Seller{
		5: {ID: 5, Name: "No payout seller"},
	}}
	channel := &fakeChannel{name: "paymob", orderID: "55"}

	o := testOrchestrator(store, accounts, channel)
	resp, err := o.CreatePayment(&CreatePaymentRequest{
		Amount:         decimal.NewFromInt(80),
		ProductOwnerID: uintPtr(5),
	})
	if err != nil {
		t.Fatalf("checkout must not be blocked by missing merchant id: %v", err)
	}
	if resp.PaymentID == "" {
		t.Error("expected payment id")
	}

	record, _ := store.FindByRemoteOrderID("55")
	if record.Status != models.PaymentStatusPending {
		t.Errorf("status: got %s, want pending", record.Status)
	}
	if record.OwnerMerchantID != nil {
		t.Errorf("merchant id should be null, got %v", *record.OwnerMerchantID)
	}
}

func TestCreatePaymentHandshakeFailureLeavesNoRecord(t *testing.T) {
	store := newFakeLedgerStore()
	accounts := &fakeAccounts{sellers: map[uint]*models.Seller{
		7: {ID: 7, MerchantID: strPtr("M1")},
	}}
	channel := &fakeChannel{name: "paymob", failWith: errors.New("provider down")}

	o := testOrchestrator(store, accounts, channel)
	_, err := o.CreatePayment(&CreatePaymentRequest{
		Amount:         decimal.NewFromInt(100),
		ProductOwnerID: uintPtr(7),
	})
	if !errors.Is(err, apperrors.ErrProviderHandshake) {
		t.Fatalf("expected ErrProviderHandshake, got %v", err)
	}
	if len(store.records) != 0 {
		t.Errorf("no partial record may remain after handshake failure")
	}
}

func TestCreatePaymentUnknownChannel(t *testing.T) {
	channel := &fakeChannel{name: "paymob", orderID: "1"}
	accounts := &fakeAccounts{sellers: map[uint]*models.Seller{7: {ID: 7}}}
	o := testOrchestrator(newFakeLedgerStore(), accounts, channel)

	_, err := o.CreatePayment(&CreatePaymentRequest{
		Amount:         decimal.NewFromInt(10),
		ProductOwnerID: uintPtr(7),
		Channel:        "stripe",
	})
	if !errors.Is(err, apperrors.ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}
