package report

import (
	"io"

	"github.com/nilecart/nile-pay/pkg/extensions/payment/utils"
	"github.com/nilecart/nile-pay/pkg/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var paymentHeaders = []string{
	"Payment ID", "Channel", "Total", "Admin Share", "Owner Share",
	"Currency", "Remote Order ID", "Merchant ID", "Status", "Created At", "Paid At",
}

var payoutHeaders = []string{
	"Task ID", "Payment ID", "Reference", "Merchant ID", "Amount Cents",
	"Currency", "Status", "Attempts", "Last Error", "Sent At",
}

// Lister 报表数据源契约
type Lister interface {
	ListPayments() ([]models.PaymentRecord, error)
	ListPayoutTasks() ([]models.PayoutTask, error)
}

type GormLister struct {
	db *gorm.DB
}

func NewGormLister(db *gorm.DB) *GormLister {
	return &GormLister{db: db}
}

func (l *GormLister) ListPayments() ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := l.db.Order("id").Find(&records).Error
	return records, err
}

func (l *GormLister) ListPayoutTasks() ([]models.PayoutTask, error) {
	var tasks []models.PayoutTask
	err := l.db.Order("id").Find(&tasks).Error
	return tasks, err
}

// Export 导出结算对账工作簿：一张支付记录表、一张打款任务表
func Export(src Lister, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Payments")
	if err := writePayments(f, src); err != nil {
		return err
	}

	if _, err := f.NewSheet("Payouts"); err != nil {
		return err
	}
	if err := writePayouts(f, src); err != nil {
		return err
	}

	return f.Write(w)
}

func writePayments(f *excelize.File, src Lister) error {
	if err := writeRow(f, "Payments", 1, toCells(paymentHeaders)); err != nil {
		return err
	}

	records, err := src.ListPayments()
	if err != nil {
		return err
	}

	for i, record := range records {
		merchantID := ""
		if record.OwnerMerchantID != nil {
			merchantID = *record.OwnerMerchantID
		}
		paidAt := ""
		if record.PaidAt != nil {
			paidAt = record.PaidAt.Format("2006-01-02 15:04:05")
		}
		row := []interface{}{
			utils.EncodePaymentID(record.ID),
			record.Channel,
			record.TotalAmount.StringFixed(2),
			record.AdminShare.StringFixed(2),
			record.OwnerShare.StringFixed(2),
			record.Currency,
			record.RemoteOrderID,
			merchantID,
			string(record.Status),
			record.CreatedAt.Format("2006-01-02 15:04:05"),
			paidAt,
		}
		if err := writeRow(f, "Payments", i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writePayouts(f *excelize.File, src Lister) error {
	if err := writeRow(f, "Payouts", 1, toCells(payoutHeaders)); err != nil {
		return err
	}

	tasks, err := src.ListPayoutTasks()
	if err != nil {
		return err
	}

	for i, task := range tasks {
		sentAt := ""
		if task.SentAt != nil {
			sentAt = task.SentAt.Format("2006-01-02 15:04:05")
		}
		row := []interface{}{
			task.ID,
			utils.EncodePaymentID(task.PaymentID),
			task.Reference,
			task.MerchantID,
			task.AmountCents,
			task.Currency,
			string(task.Status),
			task.Attempts,
			task.LastError,
			sentAt,
		}
		if err := writeRow(f, "Payouts", i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func toCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}
