package orders

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a meal order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPrepared  Status = "prepared"
	StatusDelivered Status = "delivered"
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPrepared, StatusDelivered:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to target.
// Supervisors decide pending orders; providers move approved orders through
// preparation and delivery. Date and company never change after creation.
func (s Status) CanTransition(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved:
		return target == StatusPrepared || target == StatusDelivered
	case StatusPrepared:
		return target == StatusDelivered
	}
	return false
}

// Order represents one employee's meal request for one calendar date.
type Order struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"company_id"`
	UserID        uuid.UUID `json:"user_id"`
	LunchOptionID uuid.UUID `json:"lunch_option_id"`
	Date          time.Time `json:"date"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
