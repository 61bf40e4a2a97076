package collections

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// MigrateLegacyShopNames links calculations that only carry a free-text
// legacy_shop_name to a shops record with that name, creating the shop when
// needed. Safe to call on every startup -- returns early if nothing to migrate.
func MigrateLegacyShopNames(app *pocketbase.PocketBase) error {
	shopsCol, err := app.FindCollectionByNameOrId("shops")
	if err != nil {
		return fmt.Errorf("migrate: could not find shops collection: %w", err)
	}

	orphans, err := app.FindRecordsByFilter(
		"calculations",
		"shop = '' && legacy_shop_name != ''",
		"",
		0,
		0,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query unlinked calculations: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}

	app.Logger().Info("migrate: linking calculations to shops", "component", "migrate", "count", len(orphans))

	shopIDs := make(map[string]string)
	linked := 0
	for _, calc := range orphans {
		name := strings.TrimSpace(calc.GetString("legacy_shop_name"))
		if name == "" {
			continue
		}

		id, ok := shopIDs[name]
		if !ok {
			shop, err := app.FindFirstRecordByFilter(shopsCol, "shop_name = {:name}", map[string]any{"name": name})
			if err != nil {
				shop = core.NewRecord(shopsCol)
				shop.Set("shop_name", name)
				if err := app.Save(shop); err != nil {
					app.Logger().Error("migrate: failed to create shop", "component", "migrate", "shop", name, "error", err)
					continue
				}
			}
			id = shop.Id
			shopIDs[name] = id
		}

		calc.Set("shop", id)
		if err := app.Save(calc); err != nil {
			app.Logger().Error("migrate: failed to link calculation", "component", "migrate", "id", calc.Id, "error", err)
			continue
		}
		linked++
	}

	app.Logger().Info("migrate: legacy shop migration complete", "component", "migrate", "linked", linked, "shops", len(shopIDs))
	return nil
}
