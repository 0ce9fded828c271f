package models

import (
	"fmt"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Name         string          `gorm:"type:varchar(100);not null"`
	Phone        string          `gorm:"type:varchar(10);uniqueIndex;not null"`
	Email        string          `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	DateOfBirth  *datatypes.Date `gorm:"index"`
	Gender       *Gender         `gorm:"type:varchar(20)"`
	Active       bool            `gorm:"not null;default:true"`

	// Relations
	Roles       []Role       `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE"`
	Memberships []Membership `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Payments    []Payment    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// DisplayName is the identity shown to staff: name plus phone.
func (u *User) DisplayName() string {
	return fmt.Sprintf("%s - %s", u.Name, u.Phone)
}

func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
