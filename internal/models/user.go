package models

type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleTechnician UserRole = "technician"
	UserRoleManager    UserRole = "manager"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleTechnician, UserRoleManager:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'technician'" json:"role"`
	Active       bool     `gorm:"default:true" json:"active"`
}
