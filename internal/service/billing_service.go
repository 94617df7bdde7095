package service

import (
	"context"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/billing"
	"notekeeper-be/pkg/entitlement"

	"github.com/google/uuid"
)

type BillingOptions struct {
	DefaultPriceRef string
	SuccessURL      string
}

type IBillingService interface {
	Checkout(ctx context.Context, identity Identity, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*billing.Result, error)
	SignatureHeader() string
	Subscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionResponse, error)
}

type billingService struct {
	uowFactory unitofwork.RepositoryFactory
	processor  *billing.Processor
	resolver   entitlement.PlanResolver
	options    BillingOptions
	logger     logger.ILogger
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	processor *billing.Processor,
	resolver entitlement.PlanResolver,
	options BillingOptions,
	logger logger.ILogger,
) IBillingService {
	return &billingService{
		uowFactory: uowFactory,
		processor:  processor,
		resolver:   resolver,
		options:    options,
		logger:     logger,
	}
}

// Checkout opens a hosted checkout for the pro plan. The provider customer
// ref is stored on the subscription row and reused by later checkouts.
func (s *billingService) Checkout(ctx context.Context, identity Identity, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	priceRef := req.PriceRef
	if priceRef == "" {
		priceRef = s.options.DefaultPriceRef
	}
	if priceRef == "" {
		return nil, billing.ErrPriceRequired
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SubscriptionRepository()

	sub, err := repo.FindOne(ctx, specification.ByUserID{UserID: identity.UserId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = entity.DefaultSubscription(identity.UserId, time.Now().UTC())
		if _, err := repo.CreateIfAbsent(ctx, sub); err != nil {
			return nil, err
		}
	}
	if entitlement.Entitled(sub.Plan, sub.Status) {
		return nil, ErrAlreadySubscribed
	}

	customerRef := ""
	if sub.PaymentCustomerRef != nil {
		customerRef = *sub.PaymentCustomerRef
	}

	session, err := s.processor.Gateway().CreateCheckout(ctx, billing.CheckoutRequest{
		UserID:      identity.UserId,
		Email:       identity.Email,
		PriceRef:    priceRef,
		CustomerRef: customerRef,
		SuccessURL:  s.options.SuccessURL,
	})
	if err != nil {
		s.logger.Error("BILLING", "Failed to create checkout", map[string]interface{}{
			"user_id":  identity.UserId.String(),
			"provider": s.processor.Gateway().Name(),
			"error":    err.Error(),
		})
		return nil, err
	}

	if session.CustomerRef != "" && session.CustomerRef != customerRef {
		if err := repo.SetCustomerRef(ctx, identity.UserId, session.CustomerRef); err != nil {
			return nil, err
		}
	}

	s.logger.Info("BILLING", "Checkout created", map[string]interface{}{
		"user_id":     identity.UserId.String(),
		"provider":    s.processor.Gateway().Name(),
		"session_ref": session.SessionRef,
	})
	return &dto.CheckoutResponse{Url: session.URL}, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*billing.Result, error) {
	return s.processor.HandleWebhook(ctx, payload, signature)
}

func (s *billingService) SignatureHeader() string {
	return s.processor.Gateway().SignatureHeader()
}

func (s *billingService) Subscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionResponse, error) {
	plan, err := s.resolver.Resolve(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionResponse{
		Tier:      string(plan.Tier),
		Status:    string(plan.Status),
		PeriodEnd: plan.PeriodEnd,
		Entitled:  plan.Entitled(),
	}, nil
}
