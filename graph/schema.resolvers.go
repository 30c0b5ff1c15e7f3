package graph

import (
	"context"

	"bitbucket.org/mmdatafocus/catalog_backend/middlewares"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"bitbucket.org/mmdatafocus/catalog_backend/workflow"
)

// OpenForm is the resolver for the openForm field.
func (r *mutationResolver) OpenForm(ctx context.Context) (*FormState, error) {
	p, err := r.Registry.Open(ctx)
	if err != nil {
		return nil, err
	}
	return formState(p), nil
}

// OpenItemForm is the resolver for the openItemForm field.
func (r *mutationResolver) OpenItemForm(ctx context.Context, itemID int) (*FormState, error) {
	if itemID <= 0 {
		return nil, utils.ErrorRecordNotFound
	}
	p, err := r.Registry.OpenItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return formState(p), nil
}

// CloseForm is the resolver for the closeForm field.
func (r *mutationResolver) CloseForm(ctx context.Context, sessionID string) (bool, error) {
	if err := r.Registry.Close(ctx, sessionID); err != nil {
		return false, err
	}
	return true, nil
}

// CreateReferenceUnit adds a unit to the business catalogue from within the form.
func (r *mutationResolver) CreateReferenceUnit(ctx context.Context, sessionID string, input models.NewProductUnit) (*models.ProductUnit, error) {
	p, err := r.Registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	unit, err := models.CreateProductUnit(ctx, &input)
	if err != nil {
		return nil, err
	}
	p.AddReferenceUnit(unit)
	return unit, nil
}

// SetName is the resolver for the setName field.
func (r *mutationResolver) SetName(ctx context.Context, sessionID string, name string, description *string) (*FormState, error) {
	input := struct {
		Name string `json:"name" validate:"max=100"`
	}{Name: name}
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, err
	}
	return r.mutate(ctx, sessionID, workflow.EventNameChanged, func(d *models.ItemDraft) error {
		d.SetName(name)
		if description != nil {
			d.Description = *description
		}
		return nil
	})
}

// SetCategory is the resolver for the setCategory field. 0 clears the category.
func (r *mutationResolver) SetCategory(ctx context.Context, sessionID string, categoryID int) (*FormState, error) {
	if categoryID < 0 {
		return nil, utils.ErrInvalidInput
	}
	if categoryID > 0 {
		if _, err := middlewares.GetProductCategory(ctx, categoryID); err != nil {
			return nil, err
		}
	}
	return r.mutate(ctx, sessionID, "", func(d *models.ItemDraft) error {
		d.CategoryId = categoryID
		return nil
	})
}

// SetHasVariants is the resolver for the setHasVariants field.
func (r *mutationResolver) SetHasVariants(ctx context.Context, sessionID string, hasVariants bool) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventHasVariantsChanged, func(d *models.ItemDraft) error {
		d.SetHasVariants(hasVariants)
		return nil
	})
}

// AddUnit is the resolver for the addUnit field.
func (r *mutationResolver) AddUnit(ctx context.Context, sessionID string, input models.NewUnit) (*FormState, error) {
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, err
	}
	ref, err := middlewares.GetProductUnit(ctx, input.UnitId)
	if err != nil {
		return nil, err
	}
	return r.mutate(ctx, sessionID, workflow.EventUnitsChanged, func(d *models.ItemDraft) error {
		_, err := d.AddUnit(ref, input)
		return err
	})
}

// UpdateUnit is the resolver for the updateUnit field.
func (r *mutationResolver) UpdateUnit(ctx context.Context, sessionID string, unitID string, input models.NewUnit) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventUnitsChanged, func(d *models.ItemDraft) error {
		_, err := d.UpdateUnit(unitID, input)
		return err
	})
}

// SetBaseUnit is the resolver for the setBaseUnit field.
func (r *mutationResolver) SetBaseUnit(ctx context.Context, sessionID string, unitID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventUnitsChanged, func(d *models.ItemDraft) error {
		return d.SetBaseUnit(unitID)
	})
}

// RemoveUnit relinks and regenerates on the spot so dangling skus are pruned before the answer.
func (r *mutationResolver) RemoveUnit(ctx context.Context, sessionID string, unitID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventUnitsChanged, func(d *models.ItemDraft) error {
		return d.RemoveUnit(unitID)
	})
}

type axisName struct {
	Name string `json:"name" validate:"required,max=50"`
}

// AddAxis is the resolver for the addAxis field.
func (r *mutationResolver) AddAxis(ctx context.Context, sessionID string, name string, options []string) (*FormState, error) {
	if err := utils.ValidateStruct(&axisName{Name: name}); err != nil {
		return nil, err
	}
	return r.mutate(ctx, sessionID, workflow.EventAxesChanged, func(d *models.ItemDraft) error {
		d.AddAxis(name, options...)
		return nil
	})
}

// RenameAxis is the resolver for the renameAxis field.
func (r *mutationResolver) RenameAxis(ctx context.Context, sessionID string, axisID string, name string) (*FormState, error) {
	if err := utils.ValidateStruct(&axisName{Name: name}); err != nil {
		return nil, err
	}
	return r.mutate(ctx, sessionID, workflow.EventAxesChanged, func(d *models.ItemDraft) error {
		return d.RenameAxis(axisID, name)
	})
}

// RemoveAxis is the resolver for the removeAxis field.
func (r *mutationResolver) RemoveAxis(ctx context.Context, sessionID string, axisID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventAxesChanged, func(d *models.ItemDraft) error {
		return d.RemoveAxis(axisID)
	})
}

// AddAxisOption is the resolver for the addAxisOption field.
func (r *mutationResolver) AddAxisOption(ctx context.Context, sessionID string, axisID string, label string) (*FormState, error) {
	input := struct {
		Label string `json:"label" validate:"max=50"`
	}{Label: label}
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, err
	}
	return r.mutate(ctx, sessionID, workflow.EventAxesChanged, func(d *models.ItemDraft) error {
		_, err := d.AddAxisOption(axisID, label)
		return err
	})
}

// UpdateAxisOption is the resolver for the updateAxisOption field.
func (r *mutationResolver) UpdateAxisOption(ctx context.Context, sessionID string, axisID string, optionID string, input models.NewAxisOption) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventAxesChanged, func(d *models.ItemDraft) error {
		_, err := d.UpdateAxisOption(axisID, optionID, input)
		return err
	})
}

// RemoveAxisOption is the resolver for the removeAxisOption field.
func (r *mutationResolver) RemoveAxisOption(ctx context.Context, sessionID string, axisID string, optionID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventAxesChanged, func(d *models.ItemDraft) error {
		return d.RemoveAxisOption(axisID, optionID)
	})
}

// AddVariant is the resolver for the addVariant field.
func (r *mutationResolver) AddVariant(ctx context.Context, sessionID string, options []models.VariantOption) (*FormState, error) {
	input := struct {
		Options []models.VariantOption `json:"options" validate:"required,min=1,dive"`
	}{Options: options}
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, err
	}
	return r.mutate(ctx, sessionID, workflow.EventVariantsChanged, func(d *models.ItemDraft) error {
		d.AddVariant(options)
		return nil
	})
}

// RemoveVariant is the resolver for the removeVariant field.
func (r *mutationResolver) RemoveVariant(ctx context.Context, sessionID string, variantID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventVariantsChanged, func(d *models.ItemDraft) error {
		return d.RemoveVariant(variantID)
	})
}

// AddVariantUnit is the resolver for the addVariantUnit field.
func (r *mutationResolver) AddVariantUnit(ctx context.Context, sessionID string, input models.NewVariantUnit) (*FormState, error) {
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, err
	}
	return r.mutate(ctx, sessionID, workflow.EventVariantsChanged, func(d *models.ItemDraft) error {
		_, err := d.AddVariantUnit(input)
		return err
	})
}

// RemoveVariantUnit is the resolver for the removeVariantUnit field.
func (r *mutationResolver) RemoveVariantUnit(ctx context.Context, sessionID string, variantUnitID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventVariantsChanged, func(d *models.ItemDraft) error {
		return d.RemoveVariantUnit(variantUnitID)
	})
}

// AcceptCombinations is the resolver for the acceptCombinations field.
func (r *mutationResolver) AcceptCombinations(ctx context.Context, sessionID string, codes []string) (*FormState, error) {
	input := struct {
		Codes []string `json:"codes" validate:"required,min=1"`
	}{Codes: codes}
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, err
	}
	p, err := r.Registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Candidates must be current before they can be confirmed.
	p.Flush()
	if err := p.Mutate(workflow.EventSkusChanged, func(d *models.ItemDraft) error {
		d.AcceptCombinations(codes)
		return nil
	}); err != nil {
		return nil, err
	}
	return formState(p), nil
}

// UpdateSku is the resolver for the updateSku field. Overrides must name outlets of the business.
func (r *mutationResolver) UpdateSku(ctx context.Context, sessionID string, skuID string, input models.SkuInput) (*FormState, error) {
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, err
	}
	if len(input.Overrides) > 0 {
		ids := make([]int, 0, len(input.Overrides))
		for _, o := range input.Overrides {
			ids = append(ids, o.OutletId)
		}
		if _, err := middlewares.GetOutlets(ctx, utils.UniqueSlice(ids)); err != nil {
			return nil, err
		}
	}
	return r.mutate(ctx, sessionID, workflow.EventSkusChanged, func(d *models.ItemDraft) error {
		_, err := d.UpdateSku(skuID, input)
		return err
	})
}

// ResetSkuConfig is the resolver for the resetSkuConfig field.
func (r *mutationResolver) ResetSkuConfig(ctx context.Context, sessionID string, skuID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventSkusChanged, func(d *models.ItemDraft) error {
		return d.ResetSkuToGlobal(skuID)
	})
}

// SetGlobalConfig is the resolver for the setGlobalConfig field.
func (r *mutationResolver) SetGlobalConfig(ctx context.Context, sessionID string, input models.GlobalConfig) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventGlobalConfigChanged, func(d *models.ItemDraft) error {
		d.SetGlobalConfig(input)
		return nil
	})
}

// SetUseSameConfig is the resolver for the setUseSameConfig field.
func (r *mutationResolver) SetUseSameConfig(ctx context.Context, sessionID string, useSameConfig bool) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventGlobalConfigChanged, func(d *models.ItemDraft) error {
		d.SetUseSameConfig(useSameConfig)
		return nil
	})
}

// ApplyGlobalConfig is the resolver for the applyGlobalConfig field.
func (r *mutationResolver) ApplyGlobalConfig(ctx context.Context, sessionID string) (*FormState, error) {
	return r.mutate(ctx, sessionID, workflow.EventSkusChanged, func(d *models.ItemDraft) error {
		d.ApplyGlobalToAll()
		return nil
	})
}

// FlushForm is the resolver for the flushForm field.
func (r *mutationResolver) FlushForm(ctx context.Context, sessionID string) (*FormState, error) {
	p, err := r.Registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	p.Flush()
	return formState(p), nil
}

// SubmitForm is the resolver for the submitForm field.
func (r *mutationResolver) SubmitForm(ctx context.Context, sessionID string, idempotencyKey *string) (*SubmitResult, error) {
	saved, err := r.Registry.Submit(ctx, sessionID, utils.DereferencePtr(idempotencyKey, ""))
	if err != nil {
		return nil, err
	}
	result := &SubmitResult{ItemId: saved.ID}
	if p, err := r.Registry.Get(ctx, sessionID); err == nil {
		result.Form = formState(p)
	}
	return result, nil
}

// Form is the resolver for the form field.
func (r *queryResolver) Form(ctx context.Context, sessionID string) (*FormState, error) {
	p, err := r.Registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return formState(p), nil
}

// ReferenceData is the resolver for the referenceData field.
func (r *queryResolver) ReferenceData(ctx context.Context, sessionID string) (*models.ReferenceData, error) {
	p, err := r.Registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ref := p.Reference(); ref != nil {
		return ref, nil
	}
	return &models.ReferenceData{}, nil
}

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
