package models

import (
	"github.com/shopspring/decimal"
)

// Unit is a measurement unit assigned to the item being edited.
type Unit struct {
	Identity
	UnitId           int             `json:"unit_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	IsBase           bool            `json:"is_base"`
	IsStock          bool            `json:"is_stock"`
	IsPurchase       bool            `json:"is_purchase"`
	IsSales          bool            `json:"is_sales"`
	IsTransfer       bool            `json:"is_transfer"`
}

type NewUnit struct {
	UnitId           int              `json:"unit_id" validate:"required,gt=0"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
	IsStock          *bool            `json:"is_stock"`
	IsPurchase       *bool            `json:"is_purchase"`
	IsSales          *bool            `json:"is_sales"`
	IsTransfer       *bool            `json:"is_transfer"`
}

func (u Unit) ref() *Identity {
	id := u.Identity.clone()
	return &id
}

// applyInput copies the optional fields of input, capability flags default to true.
func (u *Unit) applyInput(input NewUnit) {
	u.ConversionFactor = decimal.NewFromInt(1)
	if input.ConversionFactor != nil && input.ConversionFactor.IsPositive() {
		u.ConversionFactor = *input.ConversionFactor
	}
	u.IsStock = boolOr(input.IsStock, true)
	u.IsPurchase = boolOr(input.IsPurchase, true)
	u.IsSales = boolOr(input.IsSales, true)
	u.IsTransfer = boolOr(input.IsTransfer, true)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func findUnit(units []Unit, localId string) int {
	for i, u := range units {
		if u.LocalId == localId {
			return i
		}
	}
	return -1
}
