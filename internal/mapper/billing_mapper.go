package mapper

import (
	"encoding/json"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"

	"gorm.io/datatypes"
)

type BillingMapper struct{}

func NewBillingMapper() *BillingMapper {
	return &BillingMapper{}
}

// EventToModel drops payloads that are not valid JSON (a rejected webhook
// may carry anything) so the jsonb column never fails the insert.
func (m *BillingMapper) EventToModel(e *entity.BillingEvent) *model.BillingEvent {
	if e == nil {
		return nil
	}
	res := &model.BillingEvent{
		Id:         e.Id,
		Provider:   e.Provider,
		EventId:    e.EventId,
		EventType:  e.EventType,
		UserId:     e.UserId,
		Outcome:    string(e.Outcome),
		Detail:     e.Detail,
		ReceivedAt: e.ReceivedAt,
	}
	if len(e.Payload) > 0 && json.Valid(e.Payload) {
		res.Payload = datatypes.JSON(e.Payload)
	}
	return res
}
