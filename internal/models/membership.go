package models

import (
	"time"

	"gorm.io/datatypes"
)

// Membership is one paid period. EndDate is inclusive.
type Membership struct {
	BaseModel
	UserID    string           `gorm:"type:varchar(36);not null;index"`
	PlanID    string           `gorm:"type:varchar(36);not null;index"`
	StartDate datatypes.Date   `gorm:"not null"`
	EndDate   datatypes.Date   `gorm:"not null;index"`
	Status    MembershipStatus `gorm:"type:varchar(20);not null;default:'Active';index"`

	User *User `gorm:"foreignKey:UserID"`
	Plan *Plan `gorm:"foreignKey:PlanID"`
}

func (m *Membership) Start() time.Time {
	return time.Time(m.StartDate)
}

func (m *Membership) End() time.Time {
	return time.Time(m.EndDate)
}

func (m *Membership) PlanName() string {
	if m.Plan == nil {
		return ""
	}
	return m.Plan.Name
}
