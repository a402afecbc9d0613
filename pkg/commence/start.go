package commence

import (
	"context"

	"github.com/nilecart/nile-pay/pkg/config"
	"github.com/nilecart/nile-pay/pkg/database"
	"github.com/nilecart/nile-pay/pkg/events"
	"github.com/nilecart/nile-pay/pkg/extensions/payment"
	"github.com/nilecart/nile-pay/pkg/migration"
	"github.com/nilecart/nile-pay/pkg/payout"
	"github.com/nilecart/nile-pay/pkg/settlement"
	"github.com/nilecart/nile-pay/pkg/shared"
)

func Start(ctx context.Context, cfg *config.SettleConfig) (*shared.PaymentController, error) {
	if err := database.Open(cfg.DatabaseDSN); err != nil {
		return nil, err
	}
	if err := migration.AutoMigrate(database.Database()); err != nil {
		return nil, err
	}

	// 启动服务组件
	if err := payment.Init(cfg); err != nil {
		return nil, err
	}

	queue, err := payout.NewQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := database.Database()
	store := settlement.NewGormLedgerStore(db)
	accounts := settlement.NewGormAccountStore(db)
	outbox := payout.NewOutbox(db, queue)

	worker := payout.NewWorker(db, queue, cfg)
	go worker.Start(ctx)

	controller := shared.NewPaymentController(
		settlement.NewOrchestrator(cfg, store, accounts),
		settlement.NewReconciler(store, outbox),
		payment.NewPaymentManager(store),
		db,
	)
	return controller, nil
}

// 注册业务系统的事件处理器
func RegisterEventHandler(handler events.EventHandler) {
	events.SetEventHandler(handler)
}
