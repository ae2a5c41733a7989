package models

import (
	"time"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// User represents the canonical identity entity owned by the user service.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Phone        *string        `gorm:"column:phone;uniqueIndex"`
	Address      *string        `gorm:"column:address"`
	City         *string        `gorm:"column:city"`
	State        *string        `gorm:"column:state"`
	Country      *string        `gorm:"column:country"`
	ZipCode      *string        `gorm:"column:zip_code"`
	Role         enums.UserRole `gorm:"column:role;not null;default:CUSTOMER"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
