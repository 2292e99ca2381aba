package review

import (
	"time"

	"vehicleloan/internal/domain/loan"
)

type TransitionInput struct {
	ApplicationID string
	To            loan.Status
}

type TransitionDTO struct {
	ApplicationID string      `json:"application_id"`
	From          loan.Status `json:"from"`
	To            loan.Status `json:"to"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
