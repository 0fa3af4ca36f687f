package models

import (
	"time"

	"github.com/lib/pq"
)

type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "open"
	OrderStatusScheduled  OrderStatus = "scheduled"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusScheduled, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ServiceOrder is a unit of field work against a client's equipment.
type ServiceOrder struct {
	BaseModelWithDeleted
	ClientID     string         `gorm:"type:uuid;not null;index" json:"client_id"`
	EquipmentID  *string        `gorm:"type:uuid;index" json:"equipment_id"`
	AssignedToID *string        `gorm:"type:uuid;index" json:"assigned_to_id"`
	Status       OrderStatus    `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	ScheduledFor *time.Time     `json:"scheduled_for"`
	CompletedAt  *time.Time     `json:"completed_at"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`

	Client     *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Equipment  *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	AssignedTo *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}
