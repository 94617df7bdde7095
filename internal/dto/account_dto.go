package dto

import "github.com/google/uuid"

type ProvisionResponse struct {
	UserId  uuid.UUID `json:"user_id"`
	Created bool      `json:"created"`
	Tier    string    `json:"tier"`
	Status  string    `json:"status"`
}
