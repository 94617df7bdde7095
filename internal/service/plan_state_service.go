package service

import (
	"context"
	"encoding/json"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/entitlement"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const PlanStateTopic = "plan_state"

// PlanStateDelivery pushes plan changes to connected sessions. Typically
// implemented by the WebSocket Hub.
type PlanStateDelivery interface {
	SendPlanState(userID uuid.UUID, state dto.PlanState)
}

// PlanStatePublisher hands applied transitions to the in-process bus so the
// webhook response never waits on socket writes.
type PlanStatePublisher struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewPlanStatePublisher(pubSub *gochannel.GoChannel, logger logger.ILogger) *PlanStatePublisher {
	return &PlanStatePublisher{pubSub: pubSub, logger: logger}
}

func (p *PlanStatePublisher) NotifyPlanState(ctx context.Context, userID uuid.UUID, plan entitlement.Plan) {
	payload, err := json.Marshal(dto.PlanStateEnvelope{
		UserId: userID.String(),
		State:  toPlanState(plan),
	})
	if err != nil {
		p.logger.Error("PLAN_STATE", "Failed to encode plan state", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(PlanStateTopic, msg); err != nil {
		p.logger.Warn("PLAN_STATE", "Failed to publish plan state", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}
}

type PlanStateConsumer struct {
	pubSub   *gochannel.GoChannel
	delivery PlanStateDelivery
	logger   logger.ILogger
}

func NewPlanStateConsumer(pubSub *gochannel.GoChannel, delivery PlanStateDelivery, logger logger.ILogger) *PlanStateConsumer {
	return &PlanStateConsumer{pubSub: pubSub, delivery: delivery, logger: logger}
}

// Consume subscribes and returns; messages are handled on a goroutine until
// ctx is cancelled.
func (c *PlanStateConsumer) Consume(ctx context.Context) error {
	messages, err := c.pubSub.Subscribe(ctx, PlanStateTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(msg)
		}
	}()
	return nil
}

func (c *PlanStateConsumer) processMessage(msg *message.Message) {
	// Delivery is best effort, so every message is acked.
	defer msg.Ack()

	var envelope dto.PlanStateEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		c.logger.Warn("PLAN_STATE", "Discarding malformed plan state message", map[string]interface{}{"error": err.Error()})
		return
	}
	userID, err := uuid.Parse(envelope.UserId)
	if err != nil {
		c.logger.Warn("PLAN_STATE", "Discarding plan state without user", map[string]interface{}{"user_id": envelope.UserId})
		return
	}

	c.delivery.SendPlanState(userID, envelope.State)
}

func toPlanState(plan entitlement.Plan) dto.PlanState {
	return dto.PlanState{
		Tier:      string(plan.Tier),
		Status:    string(plan.Status),
		PeriodEnd: plan.PeriodEnd,
	}
}
