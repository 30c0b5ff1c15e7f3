package graph

import (
	"context"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
)

func queryFields(r QueryResolver) map[string]fieldResolver {
	return map[string]fieldResolver{
		"form": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.Form(ctx, a.String("sessionId"))
		},
		"referenceData": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.ReferenceData(ctx, a.String("sessionId"))
		},
	}
}

func mutationFields(r MutationResolver) map[string]fieldResolver {
	return map[string]fieldResolver{
		"openForm": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.OpenForm(ctx)
		},
		"openItemForm": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.OpenItemForm(ctx, a.Int("itemId"))
		},
		"closeForm": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.CloseForm(ctx, a.String("sessionId"))
		},
		"createReferenceUnit": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var input models.NewProductUnit
			if err := a.Decode("input", &input); err != nil {
				return nil, err
			}
			return r.CreateReferenceUnit(ctx, a.String("sessionId"), input)
		},

		"setName": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.SetName(ctx, a.String("sessionId"), a.String("name"), a.StringPtr("description"))
		},
		"setCategory": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.SetCategory(ctx, a.String("sessionId"), a.Int("categoryId"))
		},
		"setHasVariants": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.SetHasVariants(ctx, a.String("sessionId"), a.Bool("hasVariants"))
		},

		"addUnit": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var input models.NewUnit
			if err := a.Decode("input", &input); err != nil {
				return nil, err
			}
			return r.AddUnit(ctx, a.String("sessionId"), input)
		},
		"updateUnit": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var input models.NewUnit
			if err := a.Decode("input", &input); err != nil {
				return nil, err
			}
			return r.UpdateUnit(ctx, a.String("sessionId"), a.String("unitId"), input)
		},
		"setBaseUnit": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.SetBaseUnit(ctx, a.String("sessionId"), a.String("unitId"))
		},
		"removeUnit": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.RemoveUnit(ctx, a.String("sessionId"), a.String("unitId"))
		},

		"addAxis": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.AddAxis(ctx, a.String("sessionId"), a.String("name"), a.Strings("options"))
		},
		"renameAxis": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.RenameAxis(ctx, a.String("sessionId"), a.String("axisId"), a.String("name"))
		},
		"removeAxis": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.RemoveAxis(ctx, a.String("sessionId"), a.String("axisId"))
		},
		"addAxisOption": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.AddAxisOption(ctx, a.String("sessionId"), a.String("axisId"), a.String("label"))
		},
		"updateAxisOption": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var input models.NewAxisOption
			if err := a.Decode("input", &input); err != nil {
				return nil, err
			}
			return r.UpdateAxisOption(ctx, a.String("sessionId"), a.String("axisId"), a.String("optionId"), input)
		},
		"removeAxisOption": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.RemoveAxisOption(ctx, a.String("sessionId"), a.String("axisId"), a.String("optionId"))
		},

		"addVariant": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var options []models.VariantOption
			if err := a.Decode("options", &options); err != nil {
				return nil, err
			}
			return r.AddVariant(ctx, a.String("sessionId"), options)
		},
		"removeVariant": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.RemoveVariant(ctx, a.String("sessionId"), a.String("variantId"))
		},
		"addVariantUnit": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var input models.NewVariantUnit
			if err := a.Decode("input", &input); err != nil {
				return nil, err
			}
			return r.AddVariantUnit(ctx, a.String("sessionId"), input)
		},
		"removeVariantUnit": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.RemoveVariantUnit(ctx, a.String("sessionId"), a.String("variantUnitId"))
		},

		"acceptCombinations": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.AcceptCombinations(ctx, a.String("sessionId"), a.Strings("codes"))
		},
		"updateSku": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var input models.SkuInput
			if err := a.Decode("input", &input); err != nil {
				return nil, err
			}
			return r.UpdateSku(ctx, a.String("sessionId"), a.String("skuId"), input)
		},
		"resetSkuConfig": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.ResetSkuConfig(ctx, a.String("sessionId"), a.String("skuId"))
		},

		"setGlobalConfig": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			var input models.GlobalConfig
			if err := a.Decode("input", &input); err != nil {
				return nil, err
			}
			return r.SetGlobalConfig(ctx, a.String("sessionId"), input)
		},
		"setUseSameConfig": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.SetUseSameConfig(ctx, a.String("sessionId"), a.Bool("useSameConfig"))
		},
		"applyGlobalConfig": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.ApplyGlobalConfig(ctx, a.String("sessionId"))
		},

		"flushForm": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.FlushForm(ctx, a.String("sessionId"))
		},
		"submitForm": func(ctx context.Context, a fieldArgs) (interface{}, error) {
			return r.SubmitForm(ctx, a.String("sessionId"), a.StringPtr("idempotencyKey"))
		},
	}
}
