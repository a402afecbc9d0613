package shared

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nilecart/nile-pay/pkg/errors"
	"github.com/nilecart/nile-pay/pkg/extensions/payment"
	ptypes "github.com/nilecart/nile-pay/pkg/extensions/payment/types"
	"github.com/nilecart/nile-pay/pkg/extensions/payment/utils"
	"github.com/nilecart/nile-pay/pkg/report"
	"github.com/nilecart/nile-pay/pkg/settlement"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// PaymentController 结算HTTP入口
type PaymentController struct {
	orchestrator *settlement.Orchestrator
	reconciler   *settlement.Reconciler
	manager      *payment.PaymentManager
	db           *gorm.DB
}

func NewPaymentController(orchestrator *settlement.Orchestrator, reconciler *settlement.Reconciler, manager *payment.PaymentManager, db *gorm.DB) *PaymentController {
	return &PaymentController{
		orchestrator: orchestrator,
		reconciler:   reconciler,
		manager:      manager,
		db:           db,
	}
}

// RegisterRoutes 挂载路由，认证中间件由宿主系统在外层提供
func (pc *PaymentController) RegisterRoutes(r gin.IRouter) {
	r.POST("/payments", pc.CreatePayment)
	r.POST("/payments/webhook/:channel", pc.HandleWebhook)
	r.GET("/payments/report", pc.DownloadReport)
	r.GET("/payments/:payment_id", pc.GetPayment)
}

type createPaymentForm struct {
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	Customer       ptypes.Customer `json:"customer"`
	ProductOwnerID *uint           `json:"product_owner_id"`
	Channel        string          `json:"channel"`
}

// webhookForm 服务商回调载荷，order.id可能是数字也可能是字符串
type webhookForm struct {
	Obj struct {
		Success bool `json:"success"`
		Order   struct {
			ID interface{} `json:"id"`
		} `json:"order"`
	} `json:"obj"`
}

func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var form createPaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	req := &settlement.CreatePaymentRequest{
		Amount:         decimal.NewFromFloat(form.Amount),
		Currency:       form.Currency,
		Customer:       form.Customer,
		ProductOwnerID: form.ProductOwnerID,
		Channel:        form.Channel,
	}
	if header := c.GetHeader("X-User-ID"); header != "" {
		userID := cast.ToUint(header)
		if userID > 0 {
			req.RequestingUserID = &userID
		}
	}

	resp, err := pc.orchestrator.CreatePayment(req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperrors.ErrAmountRequired),
			errors.Is(err, apperrors.ErrOwnerRequired),
			errors.Is(err, apperrors.ErrChannelNotFound):
			status = http.StatusBadRequest
		case errors.Is(err, apperrors.ErrAuthRequired):
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"iframeUrl":  resp.IframeURL,
		"adminShare": resp.AdminShare,
		"ownerShare": resp.OwnerShare,
		"total":      resp.Total,
		"currency":   resp.Currency,
		"paymentId":  resp.PaymentID,
	})
}

func (pc *PaymentController) HandleWebhook(c *gin.Context) {
	var form webhookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Printf("[PaymentController] Malformed webhook payload: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	outcome, err := pc.reconciler.HandleNotification(&settlement.Notification{
		Channel:       c.Param("channel"),
		Success:       form.Obj.Success,
		RemoteOrderID: cast.ToString(form.Obj.Order.ID),
	})
	if err != nil {
		log.Printf("[PaymentController] Webhook handling error: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if outcome == settlement.OutcomeNotFound {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// GetPayment 按HashID查询单条支付记录
func (pc *PaymentController) GetPayment(c *gin.Context) {
	record, err := pc.manager.GetPaymentRecord(c.Param("payment_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment record not found"})
		return
	}

	var customer ptypes.Customer
	if record.Customer != "" {
		if err := utils.DeserializeCustomer(record.Customer, &customer); err != nil {
			log.Printf("[PaymentController] Corrupt customer snapshot on payment %d: %v", record.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"paymentId":     utils.EncodePaymentID(record.ID),
		"channel":       record.Channel,
		"total":         record.TotalAmount,
		"adminShare":    record.AdminShare,
		"ownerShare":    record.OwnerShare,
		"currency":      record.Currency,
		"status":        record.Status,
		"remoteOrderId": record.RemoteOrderID,
		"customer":      customer,
	})
}

func (pc *PaymentController) DownloadReport(c *gin.Context) {
	filename := "settlements-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := report.Export(report.NewGormLister(pc.db), c.Writer); err != nil {
		log.Printf("[PaymentController] Report export error: %v", err)
		c.Status(http.StatusInternalServerError)
	}
}
