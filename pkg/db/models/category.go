package models

import "time"

// Category groups products for browsing. Slugs are generated from the name
// when the caller omits them.
type Category struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;not null;uniqueIndex"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex"`
	Description  *string   `gorm:"column:description"`
	ImageURL     *string   `gorm:"column:image_url"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
