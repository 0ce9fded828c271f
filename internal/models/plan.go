package models

import "gorm.io/datatypes"

type Plan struct {
	BaseModel
	Name         string         `gorm:"type:varchar(100);not null"`
	Price        float64        `gorm:"not null"`
	DurationDays int            `gorm:"not null"`
	Features     datatypes.JSON `gorm:"type:json"`
	IsActive     bool           `gorm:"not null;default:true;index"`
}
