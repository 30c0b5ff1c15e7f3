package models

import (
	"strings"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/shopspring/decimal"
)

// ItemDraft is the in-memory aggregate edited by one item form.
// Skus holds the confirmed skus, Generated the reconciled candidates of the last pass.
type ItemDraft struct {
	ItemId        *int          `json:"item_id,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	CategoryId    int           `json:"category_id"`
	HasVariants   bool          `json:"has_variants"`
	UseSameConfig bool          `json:"use_same_config"`
	Global        GlobalConfig  `json:"global_config"`
	Units         []Unit        `json:"units"`
	Axes          []VariantAxis `json:"axes"`
	Variants      []Variant     `json:"variants"`
	VariantUnits  []VariantUnit `json:"variant_units"`
	Skus          []Sku         `json:"skus"`
	Generated     []Sku         `json:"-"`
}

// RegenerationStats summarizes one sku regeneration pass.
type RegenerationStats struct {
	Candidates int  `json:"candidates"`
	Missing    int  `json:"missing"`
	Pruned     int  `json:"pruned"`
	Guarded    bool `json:"guarded"`
}

func NewItemDraft(useSameConfig bool) *ItemDraft {
	return &ItemDraft{
		UseSameConfig: useSameConfig,
		Global:        DefaultGlobalConfig(),
		Units:         []Unit{},
		Axes:          []VariantAxis{},
		Variants:      []Variant{},
		VariantUnits:  []VariantUnit{},
		Skus:          []Sku{},
		Generated:     []Sku{},
	}
}

/* item fields */

func (d *ItemDraft) SetName(name string) {
	d.Name = name
}

func (d *ItemDraft) SetHasVariants(on bool) {
	d.HasVariants = on
}

/* units */

// AddUnit assigns a reference unit to the item. The first unit becomes the base unit.
func (d *ItemDraft) AddUnit(ref *ProductUnit, input NewUnit) (Unit, error) {
	if ref == nil || ref.ID <= 0 {
		return Unit{}, utils.ErrUnitNotFound
	}
	for _, u := range d.Units {
		if u.UnitId == ref.ID {
			return Unit{}, utils.ErrDuplicateUnit
		}
	}
	unit := Unit{
		Identity: newIdentity(),
		UnitId:   ref.ID,
		Code:     ref.Abbreviation,
		Name:     ref.Name,
		IsBase:   !d.hasBaseUnit(),
	}
	unit.applyInput(input)
	if unit.IsBase {
		unit.ConversionFactor = decimal.NewFromInt(1)
	}
	d.Units = append(d.Units, unit)
	return unit, nil
}

// UpdateUnit changes conversion factor and capability flags. Codes are not affected.
func (d *ItemDraft) UpdateUnit(localId string, input NewUnit) (Unit, error) {
	i := findUnit(d.Units, localId)
	if i < 0 {
		return Unit{}, utils.ErrUnitNotFound
	}
	isBase := d.Units[i].IsBase
	d.Units[i].applyInput(input)
	if isBase {
		d.Units[i].ConversionFactor = decimal.NewFromInt(1)
	}
	return d.Units[i], nil
}

// SetBaseUnit moves the base flag. The base unit always converts at 1.
func (d *ItemDraft) SetBaseUnit(localId string) error {
	i := findUnit(d.Units, localId)
	if i < 0 {
		return utils.ErrUnitNotFound
	}
	d.makeBase(i)
	return nil
}

func (d *ItemDraft) makeBase(i int) {
	for j := range d.Units {
		d.Units[j].IsBase = j == i
	}
	d.Units[i].ConversionFactor = decimal.NewFromInt(1)
}

// RemoveUnit drops a unit and prunes every variant unit and sku that referenced it
// in the same pass. Removing the base unit promotes the first remaining unit.
func (d *ItemDraft) RemoveUnit(localId string) error {
	i := findUnit(d.Units, localId)
	if i < 0 {
		return utils.ErrUnitNotFound
	}
	wasBase := d.Units[i].IsBase
	d.Units = append(d.Units[:i:i], d.Units[i+1:]...)
	if wasBase && len(d.Units) > 0 {
		d.makeBase(0)
	}
	d.Relink()
	d.RegenerateSkus(false)
	return nil
}

func (d *ItemDraft) hasBaseUnit() bool {
	for _, u := range d.Units {
		if u.IsBase {
			return true
		}
	}
	return false
}

/* axes */

func (d *ItemDraft) AddAxis(name string, labels ...string) VariantAxis {
	axis := VariantAxis{LocalId: NewLocalId(), Name: strings.TrimSpace(name), Options: []AxisOption{}}
	for _, label := range labels {
		axis.Options = append(axis.Options, AxisOption{LocalId: NewLocalId(), Label: strings.TrimSpace(label), Active: true})
	}
	d.Axes = append(d.Axes, axis)
	return axis
}

func (d *ItemDraft) RenameAxis(axisId string, name string) error {
	i := findAxis(d.Axes, axisId)
	if i < 0 {
		return utils.ErrAxisNotFound
	}
	d.Axes[i].Name = strings.TrimSpace(name)
	return nil
}

// RemoveAxis drops an axis and regenerates variants, pairings and skus in the same pass.
func (d *ItemDraft) RemoveAxis(axisId string) error {
	i := findAxis(d.Axes, axisId)
	if i < 0 {
		return utils.ErrAxisNotFound
	}
	d.Axes = append(d.Axes[:i:i], d.Axes[i+1:]...)
	d.RegenerateVariants()
	return nil
}

func (d *ItemDraft) AddAxisOption(axisId string, label string) (AxisOption, error) {
	i := findAxis(d.Axes, axisId)
	if i < 0 {
		return AxisOption{}, utils.ErrAxisNotFound
	}
	option := AxisOption{LocalId: NewLocalId(), Label: strings.TrimSpace(label), Active: true}
	d.Axes[i].Options = append(d.Axes[i].Options, option)
	return option, nil
}

func (d *ItemDraft) UpdateAxisOption(axisId string, optionId string, input NewAxisOption) (AxisOption, error) {
	i := findAxis(d.Axes, axisId)
	if i < 0 {
		return AxisOption{}, utils.ErrAxisNotFound
	}
	j := d.Axes[i].findOption(optionId)
	if j < 0 {
		return AxisOption{}, utils.ErrOptionNotFound
	}
	option := &d.Axes[i].Options[j]
	if input.Label != nil {
		option.Label = strings.TrimSpace(*input.Label)
	}
	if input.Active != nil {
		option.Active = *input.Active
	}
	return *option, nil
}

// RemoveAxisOption drops an option and regenerates variants, pairings and skus in the same pass.
func (d *ItemDraft) RemoveAxisOption(axisId string, optionId string) error {
	i := findAxis(d.Axes, axisId)
	if i < 0 {
		return utils.ErrAxisNotFound
	}
	j := d.Axes[i].findOption(optionId)
	if j < 0 {
		return utils.ErrOptionNotFound
	}
	options := d.Axes[i].Options
	d.Axes[i].Options = append(options[:j:j], options[j+1:]...)
	d.RegenerateVariants()
	return nil
}

/* variants */

// AddVariant adds a hand-made combination. An existing variant with the same options key is returned instead.
func (d *ItemDraft) AddVariant(options []VariantOption) Variant {
	cleaned := make([]VariantOption, 0, len(options))
	for _, o := range options {
		cleaned = append(cleaned, VariantOption{Axis: strings.TrimSpace(o.Axis), Value: strings.TrimSpace(o.Value)})
	}
	key := BuildOptionsKey(cleaned)
	for _, v := range d.Variants {
		if v.OptionsKey == key {
			return v
		}
	}
	variant := Variant{
		Identity:    newIdentity(),
		OptionsKey:  key,
		Options:     cleaned,
		DisplayName: BuildVariantDisplayName(cleaned),
		SortOrder:   len(d.Variants) + 1,
		IsActive:    true,
	}
	d.Variants = append(d.Variants, variant)
	return variant
}

// RemoveVariant drops a variant with its pairings and skus in the same pass.
func (d *ItemDraft) RemoveVariant(localId string) error {
	i := findVariant(d.Variants, localId)
	if i < 0 {
		return utils.ErrVariantNotFound
	}
	d.Variants = append(d.Variants[:i:i], d.Variants[i+1:]...)
	for j := range d.Variants {
		d.Variants[j].SortOrder = j + 1
	}
	d.Relink()
	d.RegenerateSkus(false)
	return nil
}

/* variant units */

// AddVariantUnit (re)activates the pairing of a variant and a unit.
func (d *ItemDraft) AddVariantUnit(input NewVariantUnit) (VariantUnit, error) {
	vi := findVariant(d.Variants, input.VariantLocalId)
	if vi < 0 {
		return VariantUnit{}, utils.ErrVariantNotFound
	}
	ui := findUnit(d.Units, input.UnitLocalId)
	if ui < 0 {
		return VariantUnit{}, utils.ErrUnitNotFound
	}
	for i, vu := range d.VariantUnits {
		if vu.VariantLocalId == input.VariantLocalId && vu.UnitLocalId == input.UnitLocalId {
			d.VariantUnits[i].IsActive = true
			return d.VariantUnits[i], nil
		}
	}
	variant, unit := d.Variants[vi], d.Units[ui]
	vu := VariantUnit{
		Identity:           newIdentity(),
		VariantLocalId:     variant.LocalId,
		VariantPersistedId: cloneIntPtr(variant.PersistedId),
		UnitLocalId:        unit.LocalId,
		UnitPersistedId:    cloneIntPtr(unit.PersistedId),
		DisplayName:        BuildVariantUnitDisplayName(variant, unit),
		IsActive:           true,
	}
	d.VariantUnits = append(d.VariantUnits, vu)
	return vu, nil
}

// RemoveVariantUnit deactivates a pairing so relinking does not bring it back,
// and drops the skus built on it in the same pass.
func (d *ItemDraft) RemoveVariantUnit(localId string) error {
	i := findVariantUnit(d.VariantUnits, localId)
	if i < 0 {
		return utils.ErrVariantUnitNotFound
	}
	d.VariantUnits[i].IsActive = false
	kept := d.Skus[:0]
	for _, s := range d.Skus {
		if s.VariantUnitRef != nil && s.VariantUnitRef.LocalId == localId {
			continue
		}
		kept = append(kept, s)
	}
	d.Skus = kept
	d.RegenerateSkus(false)
	return nil
}

/* skus */

func (d *ItemDraft) UpdateSku(localId string, input SkuInput) (Sku, error) {
	i := findSku(d.Skus, localId)
	if i < 0 {
		return Sku{}, utils.ErrSkuNotFound
	}
	d.Skus[i].applyInput(input)
	return d.Skus[i], nil
}

// AcceptCombinations promotes the generated skus with the given codes into the confirmed list.
// Codes that are unknown or already confirmed are ignored.
func (d *ItemDraft) AcceptCombinations(codes []string) []Sku {
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	confirmed := skuCodes(d.Skus)
	accepted := make([]Sku, 0)
	for _, g := range d.Generated {
		if !wanted[g.Code] || confirmed[g.Code] {
			continue
		}
		sku := g
		sku.Identity = g.Identity.clone()
		sku.Overrides = copyOverrides(g.Overrides)
		sku.Bom = normalizeBom(g.Bom)
		if d.UseSameConfig {
			sku.Config = d.Global.Config
		}
		d.Skus = append(d.Skus, sku)
		confirmed[sku.Code] = true
		accepted = append(accepted, sku)
	}
	return accepted
}

/* pipeline stages */

// RegenerateVariants rebuilds variants from the axes, then pairings and skus.
func (d *ItemDraft) RegenerateVariants() RegenerationStats {
	d.Variants = GenerateVariants(d.Axes, d.Variants)
	d.Relink()
	return d.RegenerateSkus(false)
}

// Relink rebuilds the variant x unit pairings.
func (d *ItemDraft) Relink() {
	d.VariantUnits = LinkVariantUnits(d.Variants, d.Units, d.VariantUnits)
}

// RegenerateSkus derives the candidates, reconciles them with the confirmed skus,
// refreshes the references of confirmed skus and prunes the ones whose unit or
// variant unit no longer exists. guard suppresses unconfirmed variant combinations.
func (d *ItemDraft) RegenerateSkus(guard bool) RegenerationStats {
	in := MatrixInput{
		ItemName:     d.Name,
		HasVariants:  d.HasVariants,
		Units:        d.Units,
		Variants:     d.Variants,
		VariantUnits: d.VariantUnits,
	}
	if guard {
		in.GuardCodes = make(map[string]bool)
		for _, s := range d.Skus {
			if s.IsPersisted() {
				in.GuardCodes[s.Code] = true
			}
		}
	}
	candidates := GenerateSkuCandidates(in)
	d.Generated = ReconcileSkus(candidates, d.Skus, d.Global)

	byCode := make(map[string]Sku, len(d.Generated))
	for _, g := range d.Generated {
		if _, ok := byCode[g.Code]; !ok {
			byCode[g.Code] = g
		}
	}
	pruned := d.syncConfirmed(byCode)

	if d.UseSameConfig {
		d.ApplyGlobalToAll()
	}
	return RegenerationStats{
		Candidates: len(d.Generated),
		Missing:    len(MissingCombinations(d.Generated, d.Skus)),
		Pruned:     pruned,
		Guarded:    guard,
	}
}

func (d *ItemDraft) syncConfirmed(generated map[string]Sku) int {
	units := make(map[string]bool, len(d.Units))
	for _, u := range d.Units {
		units[u.LocalId] = true
	}
	vus := make(map[string]bool, len(d.VariantUnits))
	for _, vu := range d.VariantUnits {
		vus[vu.LocalId] = true
	}

	kept := make([]Sku, 0, len(d.Skus))
	for _, s := range d.Skus {
		if g, ok := generated[s.Code]; ok {
			s.DisplayName = g.DisplayName
			s.UnitRef = g.UnitRef
			s.VariantUnitRef = g.VariantUnitRef
		}
		switch {
		case s.UnitRef != nil && units[s.UnitRef.LocalId]:
		case s.VariantUnitRef != nil && vus[s.VariantUnitRef.LocalId]:
		default:
			continue
		}
		kept = append(kept, s)
	}
	pruned := len(d.Skus) - len(kept)
	d.Skus = kept
	return pruned
}

/* views */

// ServerSkus are the confirmed skus that already have a persisted id.
func (d *ItemDraft) ServerSkus() []Sku {
	out := make([]Sku, 0)
	for _, s := range d.Skus {
		if s.IsPersisted() {
			out = append(out, s)
		}
	}
	return out
}

// LocalSkus are the confirmed skus not saved yet.
func (d *ItemDraft) LocalSkus() []Sku {
	out := make([]Sku, 0)
	for _, s := range d.Skus {
		if !s.IsPersisted() {
			out = append(out, s)
		}
	}
	return out
}

func (d *ItemDraft) MissingCombinations() []Sku {
	return MissingCombinations(d.Generated, d.Skus)
}

func (d *ItemDraft) OrphanedSkus() []Sku {
	return OrphanedSkus(d.Skus, d.Generated)
}

// ItemFormView is what the form UI renders.
type ItemFormView struct {
	Draft               *ItemDraft `json:"draft"`
	GeneratedCandidates []Sku      `json:"generated_candidates"`
	MissingCombinations []Sku      `json:"missing_combinations"`
	ServerSkus          []Sku      `json:"server_skus"`
	LocalSkus           []Sku      `json:"local_skus"`
	OrphanedSkus        []Sku      `json:"orphaned_skus"`
	ConfigMode          ConfigMode `json:"config_mode"`
}

func (d *ItemDraft) View() ItemFormView {
	return ItemFormView{
		Draft:               d,
		GeneratedCandidates: d.Generated,
		MissingCombinations: d.MissingCombinations(),
		ServerSkus:          d.ServerSkus(),
		LocalSkus:           d.LocalSkus(),
		OrphanedSkus:        d.OrphanedSkus(),
		ConfigMode:          d.ConfigMode(),
	}
}

// Clone copies the draft deep enough that later mutations of d do not show through.
func (d *ItemDraft) Clone() *ItemDraft {
	c := *d
	c.ItemId = cloneIntPtr(d.ItemId)
	c.Global.Bom = normalizeBom(d.Global.Bom)
	c.Units = append([]Unit{}, d.Units...)
	c.Axes = make([]VariantAxis, len(d.Axes))
	for i, a := range d.Axes {
		a.Options = append([]AxisOption{}, a.Options...)
		c.Axes[i] = a
	}
	c.Variants = append([]Variant{}, d.Variants...)
	c.VariantUnits = append([]VariantUnit{}, d.VariantUnits...)
	c.Skus = append([]Sku{}, d.Skus...)
	c.Generated = append([]Sku{}, d.Generated...)
	return &c
}
