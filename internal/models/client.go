package models

// Client is a customer site that owns equipment and receives service.
type Client struct {
	BaseModelWithDeleted
	Name          string `gorm:"not null;index" json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Notes         string `gorm:"type:text" json:"notes"`

	Equipment []Equipment `gorm:"foreignKey:ClientID" json:"equipment,omitempty"`
}
