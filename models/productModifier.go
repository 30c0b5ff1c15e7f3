package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

// ProductModifier is an add-on (extra shot, less sugar) offered with items at the outlet.
type ProductModifier struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetProductModifiers(ctx context.Context) ([]*ProductModifier, error) {
	return listReference[ProductModifier](ctx, func(businessId string) ([]*ProductModifier, error) {
		var results []*ProductModifier
		err := config.GetDB().WithContext(ctx).
			Where("business_id = ? AND is_active = ?", businessId, true).
			Order("name").Find(&results).Error
		return results, err
	})
}
