package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

type ProductCategory struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	ParentId   int       `gorm:"default:0;not null" json:"parent_id"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetProductCategories(ctx context.Context) ([]*ProductCategory, error) {
	return listReference[ProductCategory](ctx, func(businessId string) ([]*ProductCategory, error) {
		var results []*ProductCategory
		err := config.GetDB().WithContext(ctx).
			Where("business_id = ? AND is_active = ?", businessId, true).
			Order("name").Find(&results).Error
		return results, err
	})
}
