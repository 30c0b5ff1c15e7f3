package middlewares

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

var errLoadersMissing = errors.New("dataloaders are not in the request context")

// Loaders wrap the per-request reference data loaders
type Loaders struct {
	productUnitLoader     *dataloader.Loader[int, *models.ProductUnit]
	productCategoryLoader *dataloader.Loader[int, *models.ProductCategory]
	outletLoader          *dataloader.Loader[int, *models.Outlet]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders() *Loaders {
	productUnitReader := &referenceReader[models.ProductUnit]{
		list: models.GetProductUnits,
		id:   func(u *models.ProductUnit) int { return u.ID },
	}
	productCategoryReader := &referenceReader[models.ProductCategory]{
		list: models.GetProductCategories,
		id:   func(c *models.ProductCategory) int { return c.ID },
	}
	outletReader := &referenceReader[models.Outlet]{
		list: models.GetOutlets,
		id:   func(o *models.Outlet) int { return o.ID },
	}

	return &Loaders{
		productUnitLoader:     dataloader.NewBatchedLoader(productUnitReader.load, dataloader.WithWait[int, *models.ProductUnit](time.Millisecond)),
		productCategoryLoader: dataloader.NewBatchedLoader(productCategoryReader.load, dataloader.WithWait[int, *models.ProductCategory](time.Millisecond)),
		outletLoader:          dataloader.NewBatchedLoader(outletReader.load, dataloader.WithWait[int, *models.Outlet](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders()
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// For returns the loaders of the request, nil when LoaderMiddleware did not run.
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(loadersKey).(*Loaders)
	return loaders
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}
