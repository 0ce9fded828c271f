package models

import "time"

type Payment struct {
	BaseModel
	UserID      string        `gorm:"type:varchar(36);not null;index"`
	PlanID      string        `gorm:"type:varchar(36);index"`
	Amount      float64       `gorm:"not null"`
	Method      PaymentMethod `gorm:"column:payment_method;type:varchar(20);not null;default:'UPI'"`
	TxnRef      *string       `gorm:"type:varchar(12);index"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	Date        time.Time     `gorm:"not null;index"`
	ApprovedAt  *time.Time
	ProcessedBy *string `gorm:"type:varchar(36)"`
	Notes       string  `gorm:"type:text"`

	User *User `gorm:"foreignKey:UserID"`
	Plan *Plan `gorm:"foreignKey:PlanID"`
}

func (p *Payment) PlanName() string {
	if p.Plan == nil {
		return "N/A"
	}
	return p.Plan.Name
}
