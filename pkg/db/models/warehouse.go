package models

import "time"

// Warehouse is a physical stock location. Inventory rows reference it by id.
type Warehouse struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Code          string    `gorm:"column:code;not null;uniqueIndex"`
	Name          string    `gorm:"column:name;not null"`
	Address       *string   `gorm:"column:address"`
	City          *string   `gorm:"column:city"`
	State         *string   `gorm:"column:state"`
	Country       *string   `gorm:"column:country"`
	ZipCode       *string   `gorm:"column:zip_code"`
	ContactPerson *string   `gorm:"column:contact_person"`
	ContactPhone  *string   `gorm:"column:contact_phone"`
	ContactEmail  *string   `gorm:"column:contact_email"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
