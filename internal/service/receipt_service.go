package service

import (
	"context"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/mailer"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"
	pktNats "notekeeper-be/pkg/nats"

	"github.com/google/uuid"
)

const receiptConsumerName = "receipt-mailer"

// ReceiptService emails a confirmation when a subscription turns active.
type ReceiptService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewReceiptService(uowFactory unitofwork.RepositoryFactory, sub *pktNats.Subscriber, mail mailer.IEmailService, log logger.ILogger) *ReceiptService {
	return &ReceiptService{
		uowFactory: uowFactory,
		subscriber: sub,
		mailer:     mail,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ReceiptService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Warn("ReceiptService", "NATS subscriber unavailable, receipts disabled", nil)
		return nil
	}
	if err := s.subscriber.Subscribe(ctx, events.SubscriptionActivated, receiptConsumerName, s.HandleActivated); err != nil {
		return err
	}
	s.logger.Info("ReceiptService", "Receipt service started", map[string]interface{}{"event": events.SubscriptionActivated})
	return nil
}

// HandleActivated returns an error only for failures worth a redelivery.
func (s *ReceiptService) HandleActivated(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	raw, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("ReceiptService", "Activation event without user", map[string]interface{}{"user_id": raw})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return err
	}
	if user == nil || user.Email == "" {
		s.logger.Warn("ReceiptService", "No email on file for activated user", map[string]interface{}{"user_id": userID.String()})
		return nil
	}

	receipt := mailer.Receipt{
		ToEmail:  user.Email,
		FullName: user.FullName,
		Plan:     "Notekeeper Pro",
	}
	if end, ok := payload["period_end"].(string); ok {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			receipt.PeriodEnd = &t
		}
	}

	if err := s.mailer.SendReceipt(receipt); err != nil {
		s.logger.Error("ReceiptService", "Failed to send receipt", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		return err
	}

	s.logger.Info("ReceiptService", "Receipt sent", map[string]interface{}{"user_id": userID.String()})
	return nil
}
