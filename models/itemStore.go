package models

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const submitHandlerName = "item_submit"

var storeTracer = otel.Tracer("catalog-item-store")

// GormItemStore loads and saves items with all their units, variants and skus.
type GormItemStore struct {
	db *gorm.DB
}

func NewGormItemStore(db *gorm.DB) *GormItemStore {
	return &GormItemStore{db: db}
}

// FetchItemDetail loads an item of the business in ctx with the given relations preloaded,
// all relations when none are given.
func (s *GormItemStore) FetchItemDetail(ctx context.Context, id int, relations ...string) (*Item, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if len(relations) == 0 {
		relations = allItemRelations
	}
	ctx, span := storeTracer.Start(ctx, "GormItemStore.FetchItemDetail")
	defer span.End()
	span.SetAttributes(attribute.Int("item.id", id), attribute.StringSlice("item.relations", relations))

	dbCtx := s.db.WithContext(ctx).Where("business_id = ?", businessId)
	for _, relation := range relations {
		dbCtx = dbCtx.Preload(relation, func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		})
	}
	var item Item
	err := dbCtx.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &item, nil
}

// SubmitItem saves the payload in one transaction. Rows that are not in the payload anymore
// are deleted, local id references are resolved to the ids assigned by the database.
// A payload carrying an idempotency key that already succeeded returns the saved item.
func (s *GormItemStore) SubmitItem(ctx context.Context, p *ItemPayload) (*Item, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := ValidateItemPayload(p); err != nil {
		return nil, err
	}

	ctx, span := storeTracer.Start(ctx, "GormItemStore.SubmitItem")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("item.new", p.ItemId == nil),
		attribute.Int("item.units", len(p.Units)),
		attribute.Int("item.variants", len(p.Variants)),
		attribute.Int("item.skus", len(p.Skus)),
		attribute.Bool("item.idempotent", p.IdempotencyKey != ""),
	)
	saved, err := s.submit(ctx, businessId, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("item.id", saved.ID))
	return saved, nil
}

func (s *GormItemStore) submit(ctx context.Context, businessId string, p *ItemPayload) (*Item, error) {
	tx := s.db.WithContext(ctx).Begin()
	if p.IdempotencyKey != "" {
		savedId, skip, err := beginIdempotency(tx, businessId, submitHandlerName, p.IdempotencyKey)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if skip {
			tx.Rollback()
			return s.FetchItemDetail(ctx, savedId)
		}
	}

	itemId, err := saveItem(tx, businessId, p)
	if err == nil && p.IdempotencyKey != "" {
		err = markIdempotencySucceeded(tx, businessId, submitHandlerName, p.IdempotencyKey, itemId)
	}
	if err != nil {
		tx.Rollback()
		return nil, mapSubmitErr(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, mapSubmitErr(err)
	}
	return s.FetchItemDetail(ctx, itemId)
}

func mapSubmitErr(err error) error {
	if isDuplicateKeyErr(err) {
		return fmt.Errorf("%w: %v", utils.ErrDuplicateSkuCode, err)
	}
	return err
}

func saveItem(tx *gorm.DB, businessId string, p *ItemPayload) (int, error) {
	globalConfig, err := utils.EncodeJSONColumn(p.Global)
	if err != nil {
		return 0, err
	}
	hasVariants, useSameConfig := p.HasVariants, p.UseSameConfig

	var itemId int
	if p.ItemId != nil {
		var existing Item
		err := tx.Where("business_id = ?", businessId).First(&existing, *p.ItemId).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.ErrorRecordNotFound
		}
		if err != nil {
			return 0, err
		}
		err = tx.Model(&existing).Updates(map[string]interface{}{
			"Name":          p.Name,
			"Description":   p.Description,
			"CategoryId":    p.CategoryId,
			"HasVariants":   hasVariants,
			"UseSameConfig": useSameConfig,
			"GlobalConfig":  globalConfig,
		}).Error
		if err != nil {
			return 0, err
		}
		itemId = existing.ID
		if err := deleteStaleRows(tx, itemId, p); err != nil {
			return 0, err
		}
	} else {
		item := Item{
			BusinessId:    businessId,
			Name:          p.Name,
			Description:   p.Description,
			CategoryId:    p.CategoryId,
			HasVariants:   &hasVariants,
			UseSameConfig: &useSameConfig,
			GlobalConfig:  globalConfig,
			IsActive:      utils.NewTrue(),
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return 0, err
		}
		itemId = item.ID
	}

	unitIds, err := saveUnits(tx, businessId, itemId, p.Units)
	if err != nil {
		return 0, err
	}
	variantIds, err := saveVariants(tx, businessId, itemId, p.Variants)
	if err != nil {
		return 0, err
	}
	vuIds, err := saveVariantUnits(tx, businessId, itemId, p.VariantUnits, variantIds, unitIds)
	if err != nil {
		return 0, err
	}
	if err := saveSkus(tx, businessId, itemId, p.Skus, unitIds, vuIds); err != nil {
		return 0, err
	}
	return itemId, nil
}

// deleteStaleRows runs before any insert so a re-added sku code does not collide
// with the row it replaces.
func deleteStaleRows(tx *gorm.DB, itemId int, p *ItemPayload) error {
	keepSkus := make([]int, 0, len(p.Skus))
	for _, s := range p.Skus {
		if s.PersistedId != nil {
			keepSkus = append(keepSkus, *s.PersistedId)
		}
	}
	var staleSkus []int
	q := tx.Model(&ItemSku{}).Where("item_id = ?", itemId)
	if len(keepSkus) > 0 {
		q = q.Where("id NOT IN ?", keepSkus)
	}
	if err := q.Pluck("id", &staleSkus).Error; err != nil {
		return err
	}
	if len(staleSkus) > 0 {
		if err := tx.Where("item_sku_id IN ?", staleSkus).Delete(&ItemSkuOverride{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_sku_id IN ?", staleSkus).Delete(&ItemSkuBomLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", staleSkus).Delete(&ItemSku{}).Error; err != nil {
			return err
		}
	}

	keepVus := make([]int, 0, len(p.VariantUnits))
	for _, vu := range p.VariantUnits {
		if vu.PersistedId != nil {
			keepVus = append(keepVus, *vu.PersistedId)
		}
	}
	if err := deleteStale[ItemVariantUnit](tx, itemId, keepVus); err != nil {
		return err
	}

	keepVariants := make([]int, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.PersistedId != nil {
			keepVariants = append(keepVariants, *v.PersistedId)
		}
	}
	if err := deleteStale[ItemVariant](tx, itemId, keepVariants); err != nil {
		return err
	}

	keepUnits := make([]int, 0, len(p.Units))
	for _, u := range p.Units {
		if u.PersistedId != nil {
			keepUnits = append(keepUnits, *u.PersistedId)
		}
	}
	return deleteStale[ItemUnit](tx, itemId, keepUnits)
}

func deleteStale[T any](tx *gorm.DB, itemId int, keep []int) error {
	q := tx.Where("item_id = ?", itemId)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	var model T
	return q.Delete(&model).Error
}

// saveRow creates row, or updates every column of the persisted row of the same item.
func saveRow[T any](tx *gorm.DB, itemId int, persisted bool, row *T) error {
	if !persisted {
		return tx.Omit(clause.Associations).Create(row).Error
	}
	return tx.Model(row).Where("item_id = ?", itemId).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(row).Error
}

func saveUnits(tx *gorm.DB, businessId string, itemId int, units []Unit) (map[string]int, error) {
	ids := make(map[string]int, len(units))
	for _, u := range units {
		isBase, isStock, isPurchase, isSales, isTransfer := u.IsBase, u.IsStock, u.IsPurchase, u.IsSales, u.IsTransfer
		row := ItemUnit{
			BusinessId:       businessId,
			ItemId:           itemId,
			UnitId:           u.UnitId,
			ConversionFactor: u.ConversionFactor,
			IsBase:           &isBase,
			IsStock:          &isStock,
			IsPurchase:       &isPurchase,
			IsSales:          &isSales,
			IsTransfer:       &isTransfer,
		}
		if u.PersistedId != nil {
			row.ID = *u.PersistedId
		}
		if err := saveRow(tx, itemId, u.IsPersisted(), &row); err != nil {
			return nil, err
		}
		ids[u.LocalId] = row.ID
	}
	return ids, nil
}

func saveVariants(tx *gorm.DB, businessId string, itemId int, variants []Variant) (map[string]int, error) {
	ids := make(map[string]int, len(variants))
	for _, v := range variants {
		options, err := utils.EncodeJSONColumn(v.Options)
		if err != nil {
			return nil, err
		}
		isActive := v.IsActive
		row := ItemVariant{
			BusinessId:  businessId,
			ItemId:      itemId,
			OptionsKey:  v.OptionsKey,
			Options:     options,
			DisplayName: v.DisplayName,
			SortOrder:   v.SortOrder,
			IsActive:    &isActive,
		}
		if v.PersistedId != nil {
			row.ID = *v.PersistedId
		}
		if err := saveRow(tx, itemId, v.IsPersisted(), &row); err != nil {
			return nil, err
		}
		ids[v.LocalId] = row.ID
	}
	return ids, nil
}

func saveVariantUnits(tx *gorm.DB, businessId string, itemId int, vus []VariantUnit, variantIds, unitIds map[string]int) (map[string]int, error) {
	ids := make(map[string]int, len(vus))
	for _, vu := range vus {
		variantId, ok := variantIds[vu.VariantLocalId]
		if !ok {
			return nil, fmt.Errorf("variant unit %s: %w", vu.DisplayName, utils.ErrVariantNotFound)
		}
		unitId, ok := unitIds[vu.UnitLocalId]
		if !ok {
			return nil, fmt.Errorf("variant unit %s: %w", vu.DisplayName, utils.ErrUnitNotFound)
		}
		isActive := vu.IsActive
		row := ItemVariantUnit{
			BusinessId:  businessId,
			ItemId:      itemId,
			VariantId:   variantId,
			ItemUnitId:  unitId,
			DisplayName: vu.DisplayName,
			IsActive:    &isActive,
		}
		if vu.PersistedId != nil {
			row.ID = *vu.PersistedId
		}
		if err := saveRow(tx, itemId, vu.IsPersisted(), &row); err != nil {
			return nil, err
		}
		ids[vu.LocalId] = row.ID
	}
	return ids, nil
}

func saveSkus(tx *gorm.DB, businessId string, itemId int, skus []Sku, unitIds, vuIds map[string]int) error {
	for _, s := range skus {
		isActive, taxInclusive, hasBom := s.IsActive, s.Price.TaxInclusive, s.Bom != nil
		row := ItemSku{
			BusinessId:        businessId,
			ItemId:            itemId,
			Code:              s.Code,
			DisplayName:       s.DisplayName,
			Barcode:           s.Barcode,
			IsActive:          &isActive,
			Config:            s.Config,
			CostAmount:        s.Cost.Amount,
			CostMethod:        normalizeCost(s.Cost).Method,
			PriceAmount:       s.Price.Amount,
			PriceTaxInclusive: &taxInclusive,
			PriceMinQty:       normalizePrice(s.Price).MinQty,
			HasBom:            &hasBom,
		}
		if s.UnitRef != nil {
			id, ok := unitIds[s.UnitRef.LocalId]
			if !ok {
				return fmt.Errorf("sku %s: %w", s.Code, utils.ErrUnitNotFound)
			}
			row.ItemUnitId = &id
		} else if s.VariantUnitRef != nil {
			id, ok := vuIds[s.VariantUnitRef.LocalId]
			if !ok {
				return fmt.Errorf("sku %s: %w", s.Code, utils.ErrVariantUnitNotFound)
			}
			row.ItemVariantUnitId = &id
		}
		if bom := normalizeBom(s.Bom); bom != nil {
			row.BomYield = bom.Yield
			row.BomNotes = bom.Notes
		}
		if s.PersistedId != nil {
			row.ID = *s.PersistedId
		}
		if err := saveRow(tx, itemId, s.IsPersisted(), &row); err != nil {
			return err
		}
		if err := replaceSkuChildren(tx, businessId, row.ID, s); err != nil {
			return err
		}
	}
	return nil
}

func replaceSkuChildren(tx *gorm.DB, businessId string, skuId int, s Sku) error {
	if err := tx.Where("item_sku_id = ?", skuId).Delete(&ItemSkuOverride{}).Error; err != nil {
		return err
	}
	if err := tx.Where("item_sku_id = ?", skuId).Delete(&ItemSkuBomLine{}).Error; err != nil {
		return err
	}

	if len(s.Overrides) > 0 {
		overrides := make([]ItemSkuOverride, 0, len(s.Overrides))
		for _, o := range s.Overrides {
			overrides = append(overrides, ItemSkuOverride{
				BusinessId:  businessId,
				ItemSkuId:   skuId,
				OutletId:    o.OutletId,
				Price:       o.Price,
				IsAvailable: o.IsAvailable,
			})
		}
		if err := tx.Create(&overrides).Error; err != nil {
			return err
		}
	}
	if s.Bom != nil && len(s.Bom.Lines) > 0 {
		lines := make([]ItemSkuBomLine, 0, len(s.Bom.Lines))
		for _, l := range s.Bom.Lines {
			lines = append(lines, ItemSkuBomLine{
				BusinessId:     businessId,
				ItemSkuId:      skuId,
				ComponentSkuId: l.ComponentSkuId,
				UnitId:         l.UnitId,
				Qty:            l.Qty,
			})
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
	}
	return nil
}
