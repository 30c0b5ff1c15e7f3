package graph

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/99designs/gqlgen/graphql"
	"github.com/go-playground/validator/v10"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const (
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

// ErrorPresenter tags resolver errors with extensions.code. Unknown errors are
// logged and answered with a generic message.
func ErrorPresenter(ctx context.Context, err error) *gqlerror.Error {
	gqlErr := graphql.DefaultErrorPresenter(ctx, err)
	if _, ok := gqlErr.Extensions["code"]; ok {
		return gqlErr
	}
	if gqlErr.Extensions == nil {
		gqlErr.Extensions = map[string]interface{}{}
	}

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		gqlErr.Message = "validation failed"
		gqlErr.Extensions["code"] = CodeBadUserInput
		gqlErr.Extensions["fields"] = utils.ProcessValidationErrors(err)
	case errors.Is(err, utils.ErrInvalidItem),
		errors.Is(err, utils.ErrInvalidInput):
		gqlErr.Extensions["code"] = CodeBadUserInput
	case errors.Is(err, utils.ErrSessionNotFound),
		errors.Is(err, utils.ErrorRecordNotFound),
		errors.Is(err, utils.ErrUnitNotFound),
		errors.Is(err, utils.ErrAxisNotFound),
		errors.Is(err, utils.ErrOptionNotFound),
		errors.Is(err, utils.ErrVariantNotFound),
		errors.Is(err, utils.ErrVariantUnitNotFound),
		errors.Is(err, utils.ErrSkuNotFound):
		gqlErr.Extensions["code"] = CodeNotFound
	case errors.Is(err, utils.ErrSubmitInProgress),
		errors.Is(err, utils.ErrDuplicateUnit),
		errors.Is(err, utils.ErrDuplicateSkuCode),
		errors.Is(err, models.ErrIdempotencyInProgress):
		gqlErr.Extensions["code"] = CodeConflict
	default:
		var path string
		if fc := graphql.GetFieldContext(ctx); fc != nil {
			path = fc.Path().String()
		}
		config.LogError(config.GetLogger(), "errors.go", "ErrorPresenter", path, nil, err)
		gqlErr.Message = "internal error"
		gqlErr.Extensions["code"] = CodeInternal
	}
	return gqlErr
}
