package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

// Outlet is a selling location. Sku outlet overrides point at it.
type Outlet struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetOutlets(ctx context.Context) ([]*Outlet, error) {
	return listReference[Outlet](ctx, func(businessId string) ([]*Outlet, error) {
		var results []*Outlet
		err := config.GetDB().WithContext(ctx).
			Where("business_id = ? AND is_active = ?", businessId, true).
			Order("name").Find(&results).Error
		return results, err
	})
}
