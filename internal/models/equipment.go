package models

import (
	"github.com/lib/pq"
)

// Equipment is a serviceable unit installed at a client site. Its nameplate
// photo lives in the object store under a fixed per-equipment key and has no
// metadata row (single-slot attachment).
type Equipment struct {
	BaseModelWithDeleted
	ClientID     string         `gorm:"type:uuid;not null;index" json:"client_id"`
	Name         string         `gorm:"not null" json:"name"`
	Manufacturer string         `json:"manufacturer"`
	ModelNumber  string         `json:"model_number"`
	SerialNumber string         `gorm:"index" json:"serial_number"`
	Location     string         `json:"location"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	Notes        string         `gorm:"type:text" json:"notes"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}
