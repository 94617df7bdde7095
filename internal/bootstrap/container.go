package bootstrap

import (
	"context"
	"fmt"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/controller"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/mailer"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"
	"notekeeper-be/internal/websocket"
	"notekeeper-be/pkg/billing"
	"notekeeper-be/pkg/entitlement"
	"notekeeper-be/pkg/events"
	pktNats "notekeeper-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AccountController controller.IAccountController
	NoteController    controller.INoteController
	FolderController  controller.IFolderController
	PlanController    controller.IPlanController
	BillingController controller.IBillingController

	// Background Services (Exposed for main.go to run)
	PlanStateConsumer *service.PlanStateConsumer
	ReceiptService    *service.ReceiptService
	WebSocketHub      *websocket.Hub

	Gate      *entitlement.Gate
	Processor *billing.Processor

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure, every piece optional
	var (
		publisher  events.Publisher = events.NopPublisher{}
		subscriber *pktNats.Subscriber
	)
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		subscriber, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
			subscriber = nil
		} else {
			c.closers = append(c.closers, subscriber.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis, realtime stays local", map[string]interface{}{"error": err.Error()})
			_ = rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	var emailService mailer.IEmailService = mailer.NopEmailService{}
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.ClientURL,
		)
	}

	// 4. Realtime
	wsLogger := sysLogger
	if cfg.IsProduction() {
		wsLogger = logger.NewIsolatedLogger("logs/realtime.log")
	}
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 5. Entitlement and billing core
	resolver := entitlement.NewStoreResolver(uowFactory, sysLogger)
	counter := entitlement.NewStoreCounter(uowFactory, sysLogger)
	c.Gate = entitlement.NewGate(resolver, counter, sysLogger)

	gateway, defaultPriceRef, err := NewGateway(cfg.Billing)
	if err != nil {
		return nil, err
	}
	c.Processor = billing.NewProcessor(
		gateway,
		uowFactory,
		memory.NewEventMemo(cfg.Billing.EventMemoTTL),
		service.NewPlanStatePublisher(pubSub, sysLogger),
		publisher,
		sysLogger,
	)

	// 6. Services
	accountService := service.NewAccountService(uowFactory, publisher, sysLogger)
	noteService := service.NewNoteService(uowFactory, c.Gate, sysLogger)
	folderService := service.NewFolderService(uowFactory, c.Gate, sysLogger)
	planService := service.NewPlanService(c.Gate, proPricing(cfg.Billing))
	billingService := service.NewBillingService(uowFactory, c.Processor, resolver, service.BillingOptions{
		DefaultPriceRef: defaultPriceRef,
		SuccessURL:      cfg.Billing.SuccessURL,
	}, sysLogger)

	c.PlanStateConsumer = service.NewPlanStateConsumer(pubSub, c.WebSocketHub, sysLogger)
	c.ReceiptService = service.NewReceiptService(uowFactory, subscriber, emailService, sysLogger)

	// 7. Controllers
	c.AccountController = controller.NewAccountController(accountService)
	c.NoteController = controller.NewNoteController(noteService)
	c.FolderController = controller.NewFolderController(folderService)
	c.PlanController = controller.NewPlanController(planService, c.WebSocketHub)
	c.BillingController = controller.NewBillingController(billingService)

	return c, nil
}

// Start runs the background workers until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.PlanStateConsumer.Consume(ctx); err != nil {
		return fmt.Errorf("failed to start plan state consumer: %w", err)
	}
	if err := c.ReceiptService.Start(ctx); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Receipt service not started", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// NewGateway builds the configured payment provider and the price used
// when a checkout does not name one.
func NewGateway(cfg config.BillingConfig) (billing.Gateway, string, error) {
	switch cfg.Provider {
	case billing.ProviderPaddle:
		gateway, err := billing.NewPaddleGateway(billing.PaddleConfig{
			APIKey:        cfg.Paddle.APIKey,
			WebhookSecret: cfg.Paddle.WebhookSecret,
			Sandbox:       cfg.Paddle.Sandbox,
		})
		if err != nil {
			return nil, "", err
		}
		return gateway, cfg.Paddle.ProPriceID, nil
	case billing.ProviderMidtrans:
		gateway, err := billing.NewMidtransGateway(billing.MidtransConfig{
			ServerKey:    cfg.Midtrans.ServerKey,
			IsProduction: cfg.Midtrans.IsProduction,
			Price:        cfg.Midtrans.ProPrice,
			Period:       cfg.Midtrans.ProPeriod,
		})
		if err != nil {
			return nil, "", err
		}
		return gateway, "pro", nil
	}
	return nil, "", fmt.Errorf("unknown billing provider %q", cfg.Provider)
}

func proPricing(cfg config.BillingConfig) service.ProPricing {
	if cfg.Provider == billing.ProviderMidtrans {
		return service.ProPricing{
			Price:         cfg.Midtrans.ProPrice,
			BillingPeriod: fmt.Sprintf("%d days", int(cfg.Midtrans.ProPeriod.Hours()/24)),
		}
	}
	return service.ProPricing{BillingPeriod: "monthly"}
}
