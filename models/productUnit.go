package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
)

// ProductUnit is the business-wide unit catalogue an item picks its units from.
type ProductUnit struct {
	ID           int       `gorm:"primary_key" json:"id"`
	BusinessId   string    `gorm:"index;not null" json:"business_id"`
	Name         string    `gorm:"size:20;not null" json:"name"`
	Abbreviation string    `gorm:"size:7;not null" json:"abbreviation"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductUnit struct {
	Name         string `json:"name" validate:"required,max=20"`
	Abbreviation string `json:"abbreviation" validate:"required,max=7"`
}

func CreateProductUnit(ctx context.Context, input *NewProductUnit) (*ProductUnit, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	unit := ProductUnit{
		BusinessId:   businessId,
		Name:         input.Name,
		Abbreviation: input.Abbreviation,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Create(&unit).Error
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[ProductUnit](businessId); err != nil {
		config.LogError(config.GetLogger(), "productUnit.go", "CreateProductUnit", "removing cached list", businessId, err)
	}
	return &unit, nil
}

// GetProductUnits returns the active units of the business in the context, cached in redis.
func GetProductUnits(ctx context.Context) ([]*ProductUnit, error) {
	return listReference[ProductUnit](ctx, func(businessId string) ([]*ProductUnit, error) {
		var results []*ProductUnit
		err := config.GetDB().WithContext(ctx).
			Where("business_id = ? AND is_active = ?", businessId, true).
			Order("name").Find(&results).Error
		return results, err
	})
}

func GetProductUnit(ctx context.Context, id int) (*ProductUnit, error) {
	units, err := GetProductUnits(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, utils.ErrUnitNotFound
}
