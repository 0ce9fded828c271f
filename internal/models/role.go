package models

type Role struct {
	BaseModel
	Name        RoleName `gorm:"type:varchar(20);uniqueIndex;not null"`
	Description string   `gorm:"type:varchar(255)"`
}
