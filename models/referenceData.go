package models

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
)

// ReferenceData is what the item form needs besides the item itself.
type ReferenceData struct {
	Units      []*ProductUnit     `json:"units"`
	Categories []*ProductCategory `json:"categories"`
	Outlets    []*Outlet          `json:"outlets"`
	Modifiers  []*ProductModifier `json:"modifiers"`
}

func FetchReferenceData(ctx context.Context) (*ReferenceData, error) {
	var (
		data ReferenceData
		err  error
	)
	if data.Units, err = GetProductUnits(ctx); err != nil {
		return nil, err
	}
	if data.Categories, err = GetProductCategories(ctx); err != nil {
		return nil, err
	}
	if data.Outlets, err = GetOutlets(ctx); err != nil {
		return nil, err
	}
	if data.Modifiers, err = GetProductModifiers(ctx); err != nil {
		return nil, err
	}
	return &data, nil
}

// listReference reads a business scoped list through the redis cache.
// A cache failure falls back to the database.
func listReference[T any](ctx context.Context, fetch func(businessId string) ([]*T, error)) ([]*T, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	cached, err := utils.RetrieveRedisList[T](businessId)
	if err != nil {
		config.LogError(config.GetLogger(), "referenceData.go", "listReference", "retrieving "+utils.GetTypeName[T](), businessId, err)
	} else if cached != nil {
		return cached, nil
	}

	results, err := fetch(businessId)
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedisList(results, businessId); err != nil {
		config.LogError(config.GetLogger(), "referenceData.go", "listReference", "storing "+utils.GetTypeName[T](), businessId, err)
	}
	return results, nil
}
