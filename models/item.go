package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the persisted catalogue item. GlobalConfig holds the json of GlobalConfig.
type Item struct {
	ID            int               `gorm:"primary_key" json:"id"`
	BusinessId    string            `gorm:"index;not null" json:"business_id"`
	Name          string            `gorm:"size:100;not null" json:"name"`
	Description   string            `gorm:"type:text" json:"description"`
	CategoryId    int               `gorm:"index;not null;default:0" json:"category_id"`
	HasVariants   *bool             `gorm:"not null;default:false" json:"has_variants"`
	UseSameConfig *bool             `gorm:"not null;default:true" json:"use_same_config"`
	GlobalConfig  string            `gorm:"type:text" json:"global_config"`
	IsActive      *bool             `gorm:"not null;default:true" json:"is_active"`
	Units         []ItemUnit        `gorm:"foreignKey:ItemId" json:"units"`
	Variants      []ItemVariant     `gorm:"foreignKey:ItemId" json:"variants"`
	VariantUnits  []ItemVariantUnit `gorm:"foreignKey:ItemId" json:"variant_units"`
	Skus          []ItemSku         `gorm:"foreignKey:ItemId" json:"skus"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type ItemUnit struct {
	ID               int             `gorm:"primary_key" json:"id"`
	BusinessId       string          `gorm:"index;not null" json:"business_id"`
	ItemId           int             `gorm:"index;not null" json:"item_id"`
	UnitId           int             `gorm:"not null" json:"unit_id"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"conversion_factor"`
	IsBase           *bool           `gorm:"not null;default:false" json:"is_base"`
	IsStock          *bool           `gorm:"not null;default:true" json:"is_stock"`
	IsPurchase       *bool           `gorm:"not null;default:true" json:"is_purchase"`
	IsSales          *bool           `gorm:"not null;default:true" json:"is_sales"`
	IsTransfer       *bool           `gorm:"not null;default:true" json:"is_transfer"`
	// Unit is preloaded whether or not the reference unit is still active.
	Unit      *ProductUnit `gorm:"foreignKey:UnitId" json:"unit,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemVariant stores its options as json, e.g. [{"axis":"Size","value":"Large"}].
type ItemVariant struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BusinessId  string    `gorm:"index;not null" json:"business_id"`
	ItemId      int       `gorm:"index;not null" json:"item_id"`
	OptionsKey  string    `gorm:"size:255;not null" json:"options_key"`
	Options     string    `gorm:"type:text" json:"options"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type ItemVariantUnit struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BusinessId  string    `gorm:"index;not null" json:"business_id"`
	ItemId      int       `gorm:"index;not null" json:"item_id"`
	VariantId   int       `gorm:"index;not null" json:"variant_id"`
	ItemUnitId  int       `gorm:"index;not null" json:"item_unit_id"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemSku references either an item unit or an item variant unit, never both.
type ItemSku struct {
	ID                int               `gorm:"primary_key" json:"id"`
	BusinessId        string            `gorm:"not null;uniqueIndex:idx_item_skus_business_code" json:"business_id"`
	ItemId            int               `gorm:"index;not null" json:"item_id"`
	Code              string            `gorm:"size:100;not null;uniqueIndex:idx_item_skus_business_code" json:"code"`
	DisplayName       string            `gorm:"size:255" json:"display_name"`
	Barcode           string            `gorm:"index;size:100" json:"barcode"`
	IsActive          *bool             `gorm:"not null;default:true" json:"is_active"`
	ItemUnitId        *int              `gorm:"index" json:"item_unit_id"`
	ItemVariantUnitId *int              `gorm:"index" json:"item_variant_unit_id"`
	Config            SkuConfig         `gorm:"embedded;embeddedPrefix:cfg_" json:"config"`
	CostAmount        decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"cost_amount"`
	CostMethod        string            `gorm:"size:20;not null;default:FIFO" json:"cost_method"`
	PriceAmount       decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"price_amount"`
	PriceTaxInclusive *bool             `gorm:"not null;default:false" json:"price_tax_inclusive"`
	PriceMinQty       decimal.Decimal   `gorm:"type:decimal(20,4);default:1" json:"price_min_qty"`
	HasBom            *bool             `gorm:"not null;default:false" json:"has_bom"`
	BomYield          decimal.Decimal   `gorm:"type:decimal(20,4);default:1" json:"bom_yield"`
	BomNotes          string            `gorm:"type:text" json:"bom_notes"`
	Overrides         []ItemSkuOverride `gorm:"foreignKey:ItemSkuId" json:"overrides"`
	BomLines          []ItemSkuBomLine  `gorm:"foreignKey:ItemSkuId" json:"bom_lines"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type ItemSkuOverride struct {
	ID          int              `gorm:"primary_key" json:"id"`
	BusinessId  string           `gorm:"index;not null" json:"business_id"`
	ItemSkuId   int              `gorm:"index;not null" json:"item_sku_id"`
	OutletId    int              `gorm:"not null" json:"outlet_id"`
	Price       *decimal.Decimal `gorm:"type:decimal(20,4)" json:"price"`
	IsAvailable *bool            `json:"is_available"`
}

type ItemSkuBomLine struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	ItemSkuId      int             `gorm:"index;not null" json:"item_sku_id"`
	ComponentSkuId int             `gorm:"not null" json:"component_sku_id"`
	UnitId         int             `gorm:"not null" json:"unit_id"`
	Qty            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
}

// relations accepted by GormItemStore.FetchItemDetail
const (
	ItemRelationUnits        = "Units"
	ItemRelationVariants     = "Variants"
	ItemRelationVariantUnits = "VariantUnits"
	ItemRelationUnitRefs     = "Units.Unit"
	ItemRelationSkus         = "Skus"
	ItemRelationOverrides    = "Skus.Overrides"
	ItemRelationBomLines     = "Skus.BomLines"
)

var allItemRelations = []string{
	ItemRelationUnits, ItemRelationUnitRefs, ItemRelationVariants, ItemRelationVariantUnits,
	ItemRelationSkus, ItemRelationOverrides, ItemRelationBomLines,
}
