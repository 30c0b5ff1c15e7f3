package models

import (
	"log"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&ProductUnit{}, &ProductCategory{}, &ProductModifier{}, &Outlet{},
		&Item{}, &ItemUnit{}, &ItemVariant{}, &ItemVariantUnit{},
		&ItemSku{}, &ItemSkuOverride{}, &ItemSkuBomLine{},
		&IdempotencyKey{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
