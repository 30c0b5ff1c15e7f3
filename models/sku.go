package models

import (
	"github.com/shopspring/decimal"
)

const CostMethodFIFO = "FIFO"

// Sku is a sellable unit of the item. Exactly one of UnitRef and VariantUnitRef is set.
type Sku struct {
	Identity
	DisplayName    string           `json:"display_name"`
	Code           string           `json:"code"`
	Barcode        string           `json:"barcode"`
	IsActive       bool             `json:"is_active"`
	UnitRef        *Identity        `json:"unit_ref,omitempty"`
	VariantUnitRef *Identity        `json:"variant_unit_ref,omitempty"`
	Config         SkuConfig        `json:"config"`
	Cost           SkuCost          `json:"cost"`
	Price          SkuPrice         `json:"price"`
	Bom            *SkuBom          `json:"bom,omitempty"`
	Overrides      []OutletOverride `json:"overrides"`
}

// SkuConfig is the sale/stock policy of a sku.
type SkuConfig struct {
	ManageStock        bool            `gorm:"not null" json:"manage_stock"`
	AllowNegativeStock bool            `gorm:"not null" json:"allow_negative_stock"`
	IsSellable         bool            `gorm:"not null" json:"is_sellable"`
	IsPurchasable      bool            `gorm:"not null" json:"is_purchasable"`
	TrackBatch         bool            `gorm:"not null" json:"track_batch"`
	MinStock           decimal.Decimal `gorm:"type:decimal(20,4)" json:"min_stock"`
}

type SkuCost struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

type SkuPrice struct {
	Amount       decimal.Decimal `json:"amount"`
	TaxInclusive bool            `json:"tax_inclusive"`
	MinQty       decimal.Decimal `json:"min_qty"`
}

type SkuBom struct {
	Yield decimal.Decimal `json:"yield"`
	Notes string          `json:"notes"`
	Lines []BomLine       `json:"lines"`
}

type BomLine struct {
	ComponentSkuId int             `json:"component_sku_id"`
	UnitId         int             `json:"unit_id"`
	Qty            decimal.Decimal `json:"qty"`
}

// OutletOverride replaces the price or availability of a sku at one outlet.
type OutletOverride struct {
	OutletId    int              `json:"outlet_id" validate:"required,gt=0"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// GlobalConfig is the item-level default for every sku.
type GlobalConfig struct {
	Config SkuConfig `json:"config"`
	Cost   SkuCost   `json:"cost"`
	Price  SkuPrice  `json:"price"`
	Bom    *SkuBom   `json:"bom,omitempty"`
}

// SkuInput edits one confirmed sku. Nil fields are left unchanged.
type SkuInput struct {
	Barcode   *string          `json:"barcode" validate:"omitempty,max=100"`
	IsActive  *bool            `json:"is_active"`
	Config    *SkuConfig       `json:"config"`
	Cost      *SkuCost         `json:"cost"`
	Price     *SkuPrice        `json:"price"`
	Bom       *SkuBom          `json:"bom"`
	Overrides []OutletOverride `json:"overrides" validate:"dive"`
}

func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Config: SkuConfig{
			IsSellable:    true,
			IsPurchasable: true,
		},
		Cost:  normalizeCost(SkuCost{}),
		Price: normalizePrice(SkuPrice{}),
	}
}

func normalizeCost(c SkuCost) SkuCost {
	if c.Method == "" {
		c.Method = CostMethodFIFO
	}
	return c
}

func normalizePrice(p SkuPrice) SkuPrice {
	if !p.MinQty.IsPositive() {
		p.MinQty = decimal.NewFromInt(1)
	}
	return p
}

// normalizeBom copies b, defaulting yield to 1 and lines to empty.
func normalizeBom(b *SkuBom) *SkuBom {
	if b == nil {
		return nil
	}
	out := SkuBom{Yield: b.Yield, Notes: b.Notes, Lines: make([]BomLine, len(b.Lines))}
	copy(out.Lines, b.Lines)
	if !out.Yield.IsPositive() {
		out.Yield = decimal.NewFromInt(1)
	}
	return &out
}

func copyOverrides(overrides []OutletOverride) []OutletOverride {
	out := make([]OutletOverride, len(overrides))
	copy(out, overrides)
	return out
}

// HasValidRef reports whether exactly one of UnitRef and VariantUnitRef is set.
func (s Sku) HasValidRef() bool {
	return (s.UnitRef == nil) != (s.VariantUnitRef == nil)
}

func findSku(skus []Sku, localId string) int {
	for i, s := range skus {
		if s.LocalId == localId {
			return i
		}
	}
	return -1
}

func (s *Sku) applyInput(input SkuInput) {
	if input.Barcode != nil {
		s.Barcode = *input.Barcode
	}
	if input.IsActive != nil {
		s.IsActive = *input.IsActive
	}
	if input.Config != nil {
		s.Config = *input.Config
	}
	if input.Cost != nil {
		s.Cost = normalizeCost(*input.Cost)
	}
	if input.Price != nil {
		s.Price = normalizePrice(*input.Price)
	}
	if input.Bom != nil {
		s.Bom = normalizeBom(input.Bom)
	}
	if input.Overrides != nil {
		s.Overrides = copyOverrides(input.Overrides)
	}
}
