package middlewares

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/graph-gophers/dataloader/v7"
)

// referenceReader resolves ids against a cached business-wide list
type referenceReader[T any] struct {
	list func(ctx context.Context) ([]*T, error)
	id   func(*T) int
}

func (r *referenceReader[T]) load(ctx context.Context, ids []int) []*dataloader.Result[*T] {
	all, err := r.list(ctx)
	if err != nil {
		return handleError[*T](len(ids), err)
	}
	resultMap := make(map[int]*T, len(all))
	for _, v := range all {
		resultMap[r.id(v)] = v
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		result, ok := resultMap[id]
		if !ok {
			loaderResults = append(loaderResults, &dataloader.Result[*T]{
				Error: fmt.Errorf("%s %d: %w", utils.GetTypeName[T](), id, utils.ErrorRecordNotFound),
			})
			continue
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: result})
	}
	return loaderResults
}

func GetProductUnit(ctx context.Context, id int) (*models.ProductUnit, error) {
	loaders := For(ctx)
	if loaders == nil {
		return models.GetProductUnit(ctx, id)
	}
	return loaders.productUnitLoader.Load(ctx, id)()
}

func GetProductCategory(ctx context.Context, id int) (*models.ProductCategory, error) {
	loaders := For(ctx)
	if loaders == nil {
		return nil, errLoadersMissing
	}
	return loaders.productCategoryLoader.Load(ctx, id)()
}

// GetOutlets resolves outlet ids, the first failing id is returned as the error.
func GetOutlets(ctx context.Context, ids []int) ([]*models.Outlet, error) {
	loaders := For(ctx)
	if loaders == nil {
		return nil, errLoadersMissing
	}
	outlets, errs := loaders.outletLoader.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outlets, nil
}
