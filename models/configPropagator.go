package models

import "bitbucket.org/mmdatafocus/catalog_backend/utils"

type ConfigMode string

const (
	ConfigModeShared      ConfigMode = "shared"
	ConfigModeIndependent ConfigMode = "independent"
)

func (d *ItemDraft) ConfigMode() ConfigMode {
	if d.UseSameConfig {
		return ConfigModeShared
	}
	return ConfigModeIndependent
}

// BroadcastConfig overwrites the config of every sku with cfg.
func BroadcastConfig(skus []Sku, cfg SkuConfig) {
	for i := range skus {
		skus[i].Config = cfg
	}
}

// SetUseSameConfig switches the config mode. Entering shared mode mirrors the global config
// onto every sku at once; leaving it keeps whatever config each sku had.
func (d *ItemDraft) SetUseSameConfig(on bool) {
	was := d.UseSameConfig
	d.UseSameConfig = on
	if on && !was {
		d.ApplyGlobalToAll()
	}
}

// SetGlobalConfig replaces the global config, re-broadcasting it in shared mode.
func (d *ItemDraft) SetGlobalConfig(global GlobalConfig) {
	global.Cost = normalizeCost(global.Cost)
	global.Price = normalizePrice(global.Price)
	global.Bom = normalizeBom(global.Bom)
	d.Global = global
	if d.UseSameConfig {
		d.ApplyGlobalToAll()
	}
}

// ApplyGlobalToAll broadcasts the global config regardless of mode.
func (d *ItemDraft) ApplyGlobalToAll() {
	BroadcastConfig(d.Skus, d.Global.Config)
	BroadcastConfig(d.Generated, d.Global.Config)
}

// ResetSkuToGlobal copies the global config onto one confirmed sku.
func (d *ItemDraft) ResetSkuToGlobal(localId string) error {
	i := findSku(d.Skus, localId)
	if i < 0 {
		return utils.ErrSkuNotFound
	}
	d.Skus[i].Config = d.Global.Config
	return nil
}
