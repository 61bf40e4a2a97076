package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Exchange rate sources stored on exchange_rates.source.
const (
	RateSourceManual = "manual"
	RateSourceLive   = "live"
)

// Setup programmatically creates/ensures the shops, calculations and
// exchange_rates collections exist.
func Setup(app *pocketbase.PocketBase) error {
	shops, err := ensureCollection(app, "shops", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "shop_name", Required: true, Max: 200})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, "calculations", func(c *core.Collection) {
		// Not required at the storage level: rows imported from the
		// free-text era only carry legacy_shop_name until migrated.
		c.Fields.Add(&core.RelationField{
			Name:          "shop",
			Required:      false,
			CollectionId:  shops.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "item_name", Required: true, Max: 300})
		c.Fields.Add(&core.TextField{Name: "legacy_shop_name", Required: false})

		// Inputs.
		c.Fields.Add(&core.NumberField{Name: "qty", Required: true})
		c.Fields.Add(&core.NumberField{Name: "rmb_price"})
		c.Fields.Add(&core.NumberField{Name: "cmb_rate"})
		c.Fields.Add(&core.NumberField{Name: "cmb_amount"})
		c.Fields.Add(&core.NumberField{Name: "extra_tax"})
		c.Fields.Add(&core.NumberField{Name: "exchange_rate", Required: true})

		// Derived, always written by services.ApplyBreakdown.
		c.Fields.Add(&core.NumberField{Name: "rmb_amount"})
		c.Fields.Add(&core.NumberField{Name: "lkr_amount"})
		c.Fields.Add(&core.NumberField{Name: "cmb_value"})
		c.Fields.Add(&core.NumberField{Name: "final_value"})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})

		c.Fields.Add(&core.JSONField{Name: "shop_distribution"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})

		c.AddIndex("idx_calculations_shop", false, "shop", "")
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, "exchange_rates", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "rate", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "source",
			Required:  true,
			Values:    []string{RateSourceManual, RateSourceLive},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
	return err
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		app.Logger().Debug("collection already exists, skipping creation", "collection", name)
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	app.Logger().Info("created collection", "collection", name, "id", collection.Id)
	return collection, nil
}
