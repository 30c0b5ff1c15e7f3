package models

import (
	"fmt"
	"strconv"
	"strings"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
)

// ItemPayload is the submit shape of a draft. Cross references use local ids,
// the store resolves them to database ids.
type ItemPayload struct {
	ItemId         *int          `json:"item_id,omitempty"`
	IdempotencyKey string        `json:"-"`
	Name           string        `json:"name" validate:"required,max=100"`
	Description    string        `json:"description"`
	CategoryId     int           `json:"category_id"`
	HasVariants    bool          `json:"has_variants"`
	UseSameConfig  bool          `json:"use_same_config"`
	Global         GlobalConfig  `json:"global_config"`
	Units          []Unit        `json:"units" validate:"min=1"`
	Variants       []Variant     `json:"variants"`
	VariantUnits   []VariantUnit `json:"variant_units"`
	Skus           []Sku         `json:"skus"`
}

// NormalizeItem hydrates a draft from a stored item. Local ids are back-filled from the
// persisted ids so every cross reference is already linked, and the axes are rebuilt
// from the variants. units supplies unit codes and names, falling back to the preloaded
// unit of each item unit so that deactivated units keep their codes.
func NormalizeItem(item *Item, units []*ProductUnit) (*ItemDraft, error) {
	if item == nil {
		return nil, utils.ErrorRecordNotFound
	}
	draft := NewItemDraft(item.UseSameConfig == nil || *item.UseSameConfig)
	id := item.ID
	draft.ItemId = &id
	draft.Name = item.Name
	draft.Description = item.Description
	draft.CategoryId = item.CategoryId
	draft.HasVariants = utils.DereferencePtr(item.HasVariants, false)

	if strings.TrimSpace(item.GlobalConfig) != "" {
		var global GlobalConfig
		if err := utils.DecodeJSONColumn(item.GlobalConfig, &global); err != nil {
			return nil, fmt.Errorf("item %d global config: %w", item.ID, err)
		}
		global.Cost = normalizeCost(global.Cost)
		global.Price = normalizePrice(global.Price)
		global.Bom = normalizeBom(global.Bom)
		draft.Global = global
	}

	refs := make(map[int]*ProductUnit, len(units))
	for _, u := range units {
		refs[u.ID] = u
	}
	for _, iu := range item.Units {
		unit := Unit{
			Identity:         persistedIdentity(iu.ID),
			UnitId:           iu.UnitId,
			ConversionFactor: iu.ConversionFactor,
			IsBase:           utils.DereferencePtr(iu.IsBase, false),
			IsStock:          utils.DereferencePtr(iu.IsStock, true),
			IsPurchase:       utils.DereferencePtr(iu.IsPurchase, true),
			IsSales:          utils.DereferencePtr(iu.IsSales, true),
			IsTransfer:       utils.DereferencePtr(iu.IsTransfer, true),
		}
		ref, ok := refs[iu.UnitId]
		if !ok {
			ref = iu.Unit
		}
		if ref != nil {
			unit.Code = ref.Abbreviation
			unit.Name = ref.Name
		}
		draft.Units = append(draft.Units, unit)
	}
	if len(draft.Units) > 0 && !draft.hasBaseUnit() {
		draft.Units[0].IsBase = true
	}

	for _, iv := range item.Variants {
		var options []VariantOption
		if err := utils.DecodeJSONColumn(iv.Options, &options); err != nil {
			return nil, fmt.Errorf("item variant %d options: %w", iv.ID, err)
		}
		draft.Variants = append(draft.Variants, Variant{
			Identity:    persistedIdentity(iv.ID),
			OptionsKey:  BuildOptionsKey(options),
			Options:     options,
			DisplayName: BuildVariantDisplayName(options),
			SortOrder:   iv.SortOrder,
			IsActive:    utils.DereferencePtr(iv.IsActive, true),
		})
	}
	draft.Axes = AxesFromVariants(draft.Variants)

	for _, ivu := range item.VariantUnits {
		draft.VariantUnits = append(draft.VariantUnits, VariantUnit{
			Identity:           persistedIdentity(ivu.ID),
			VariantLocalId:     strconv.Itoa(ivu.VariantId),
			VariantPersistedId: cloneIntPtr(&ivu.VariantId),
			UnitLocalId:        strconv.Itoa(ivu.ItemUnitId),
			UnitPersistedId:    cloneIntPtr(&ivu.ItemUnitId),
			DisplayName:        ivu.DisplayName,
			IsActive:           utils.DereferencePtr(ivu.IsActive, true),
		})
	}

	for _, is := range item.Skus {
		sku := Sku{
			Identity:    persistedIdentity(is.ID),
			DisplayName: is.DisplayName,
			Code:        is.Code,
			Barcode:     is.Barcode,
			IsActive:    utils.DereferencePtr(is.IsActive, true),
			Config:      is.Config,
			Cost:        normalizeCost(SkuCost{Amount: is.CostAmount, Method: is.CostMethod}),
			Price: normalizePrice(SkuPrice{
				Amount:       is.PriceAmount,
				TaxInclusive: utils.DereferencePtr(is.PriceTaxInclusive, false),
				MinQty:       is.PriceMinQty,
			}),
			Overrides: make([]OutletOverride, 0, len(is.Overrides)),
		}
		if is.ItemVariantUnitId != nil {
			ref := persistedIdentity(*is.ItemVariantUnitId)
			sku.VariantUnitRef = &ref
		} else if is.ItemUnitId != nil {
			ref := persistedIdentity(*is.ItemUnitId)
			sku.UnitRef = &ref
		}
		if utils.DereferencePtr(is.HasBom, false) {
			bom := SkuBom{Yield: is.BomYield, Notes: is.BomNotes, Lines: make([]BomLine, 0, len(is.BomLines))}
			for _, l := range is.BomLines {
				bom.Lines = append(bom.Lines, BomLine{ComponentSkuId: l.ComponentSkuId, UnitId: l.UnitId, Qty: l.Qty})
			}
			sku.Bom = normalizeBom(&bom)
		}
		for _, o := range is.Overrides {
			sku.Overrides = append(sku.Overrides, OutletOverride{OutletId: o.OutletId, Price: o.Price, IsAvailable: o.IsAvailable})
		}
		draft.Skus = append(draft.Skus, sku)
	}
	return draft, nil
}

// BuildItemPayload copies the draft into its submit shape.
func BuildItemPayload(d *ItemDraft) *ItemPayload {
	p := &ItemPayload{
		ItemId:        cloneIntPtr(d.ItemId),
		Name:          strings.TrimSpace(d.Name),
		Description:   d.Description,
		CategoryId:    d.CategoryId,
		HasVariants:   d.HasVariants,
		UseSameConfig: d.UseSameConfig,
		Global:        d.Global,
		Units:         append([]Unit{}, d.Units...),
		Variants:      append([]Variant{}, d.Variants...),
		VariantUnits:  append([]VariantUnit{}, d.VariantUnits...),
		Skus:          make([]Sku, 0, len(d.Skus)),
	}
	p.Global.Bom = normalizeBom(d.Global.Bom)
	for _, s := range d.Skus {
		s.Overrides = copyOverrides(s.Overrides)
		s.Bom = normalizeBom(s.Bom)
		p.Skus = append(p.Skus, s)
	}
	return p
}

// ValidateItemPayload is the integrity check the store relies on.
func ValidateItemPayload(p *ItemPayload) error {
	if err := utils.ValidateStruct(p); err != nil {
		return err
	}

	units := make(map[string]bool, len(p.Units))
	bases := 0
	for _, u := range p.Units {
		units[u.LocalId] = true
		if u.IsBase {
			bases++
		}
	}
	if bases != 1 {
		return fmt.Errorf("%w: item must have exactly one base unit", utils.ErrInvalidItem)
	}

	vus := make(map[string]bool, len(p.VariantUnits))
	for _, vu := range p.VariantUnits {
		vus[vu.LocalId] = true
	}

	codes := make(map[string]bool, len(p.Skus))
	for _, s := range p.Skus {
		if !s.HasValidRef() {
			return fmt.Errorf("%w: sku %s must reference exactly one unit or variant unit", utils.ErrInvalidItem, s.Code)
		}
		if s.UnitRef != nil && !units[s.UnitRef.LocalId] {
			return fmt.Errorf("%w: sku %s: %w", utils.ErrInvalidItem, s.Code, utils.ErrUnitNotFound)
		}
		if s.VariantUnitRef != nil && !vus[s.VariantUnitRef.LocalId] {
			return fmt.Errorf("%w: sku %s: %w", utils.ErrInvalidItem, s.Code, utils.ErrVariantUnitNotFound)
		}
		if codes[s.Code] {
			return fmt.Errorf("%s: %w", s.Code, utils.ErrDuplicateSkuCode)
		}
		codes[s.Code] = true
	}
	return nil
}
