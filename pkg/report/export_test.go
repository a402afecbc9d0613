package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/nilecart/nile-pay/pkg/extensions/payment/utils"
	"github.com/nilecart/nile-pay/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type stubLister struct {
	payments []models.PaymentRecord
	tasks    []models.PayoutTask
}

func (s *stubLister) ListPayments() ([]models.PaymentRecord, error) {
	return s.payments, nil
}

func (s *stubLister) ListPayoutTasks() ([]models.PayoutTask, error) {
	return s.tasks, nil
}

func strPtr(v string) *string { return &v }

func TestExportWritesOneRowPerRecord(t *testing.T) {
	paidAt := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	src := &stubLister{
		payments: []models.PaymentRecord{
			{
				ID:              1,
				Channel:         "paymob",
				TotalAmount:     decimal.NewFromInt(250),
				AdminShare:      decimal.NewFromInt(50),
				OwnerShare:      decimal.NewFromInt(200),
				Currency:        "EGP",
				RemoteOrderID:   "9001",
				OwnerMerchantID: strPtr("M1"),
				Status:          models.PaymentStatusPaid,
				CreatedAt:       paidAt.Add(-time.Hour),
				PaidAt:          &paidAt,
			},
			{
				ID:            2,
				Channel:       "paymob",
				TotalAmount:   decimal.NewFromInt(100),
				AdminShare:    decimal.NewFromInt(20),
				OwnerShare:    decimal.NewFromInt(80),
				Currency:      "EGP",
				RemoteOrderID: "9002",
				Status:        models.PaymentStatusPending,
				CreatedAt:     paidAt,
			},
		},
		tasks: []models.PayoutTask{
			{
				ID:          7,
				PaymentID:   1,
				Channel:     "paymob",
				Reference:   "ref-1",
				MerchantID:  "M1",
				AmountCents: 20000,
				Currency:    "EGP",
				Status:      models.PayoutStatusQueued,
			},
		},
	}

	var buf bytes.Buffer
	if err := Export(src, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	payments, err := f.GetRows("Payments")
	if err != nil {
		t.Fatalf("GetRows(Payments): %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("Payments rows: got %d, want header + 2 records", len(payments))
	}
	if payments[0][0] != "Payment ID" || payments[0][8] != "Status" {
		t.Errorf("unexpected payment headers: %v", payments[0])
	}
	if payments[1][0] != utils.EncodePaymentID(1) {
		t.Errorf("row 1 payment id: got %q", payments[1][0])
	}
	if payments[1][2] != "250.00" || payments[1][3] != "50.00" || payments[1][4] != "200.00" {
		t.Errorf("row 1 amounts: got %v", payments[1][2:5])
	}
	if payments[1][7] != "M1" || payments[1][8] != "paid" {
		t.Errorf("row 1 merchant/status: got %q %q", payments[1][7], payments[1][8])
	}
	// 无打款目标的记录商户列留空
	if len(payments[2]) > 7 && payments[2][7] != "" {
		t.Errorf("row 2 merchant: got %q, want empty", payments[2][7])
	}
	if payments[2][8] != "pending" {
		t.Errorf("row 2 status: got %q", payments[2][8])
	}

	payouts, err := f.GetRows("Payouts")
	if err != nil {
		t.Fatalf("GetRows(Payouts): %v", err)
	}
	if len(payouts) != 2 {
		t.Fatalf("Payouts rows: got %d, want header + 1 task", len(payouts))
	}
	if payouts[0][0] != "Task ID" || payouts[0][2] != "Reference" {
		t.Errorf("unexpected payout headers: %v", payouts[0])
	}
	if payouts[1][1] != utils.EncodePaymentID(1) || payouts[1][4] != "20000" {
		t.Errorf("task row: got %v", payouts[1])
	}
}

func TestExportEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&stubLister{}, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Payments", "Payouts"} {
		rows, err := f.GetRows(sheet)
		if err != nil {
			t.Fatalf("GetRows(%s): %v", sheet, err)
		}
		if len(rows) != 1 {
			t.Errorf("%s rows: got %d, want header only", sheet, len(rows))
		}
	}
}
