package collections_test

import (
	"testing"

	"lkrpricing/collections"
	"lkrpricing/testhelpers"
)

func TestMigrateLegacyShopNames_LinksAndCreatesShops(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	existing := testhelpers.CreateTestShop(t, app, "Pettah Traders")

	a := testhelpers.CreateTestCalculation(t, app, "", testhelpers.CalculationFields{ItemName: "A", LegacyShopName: "Pettah Traders"})
	b := testhelpers.CreateTestCalculation(t, app, "", testhelpers.CalculationFields{ItemName: "B", LegacyShopName: " Galle Stores "})
	c := testhelpers.CreateTestCalculation(t, app, "", testhelpers.CalculationFields{ItemName: "C", LegacyShopName: "Galle Stores"})
	d := testhelpers.CreateTestCalculation(t, app, "", testhelpers.CalculationFields{ItemName: "D"})

	if err := collections.MigrateLegacyShopNames(app); err != nil {
		t.Fatalf("MigrateLegacyShopNames() error: %v", err)
	}

	reload := func(id string) string {
		rec, err := app.FindRecordById("calculations", id)
		if err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		return rec.GetString("shop")
	}

	if got := reload(a.Id); got != existing.Id {
		t.Errorf("A linked to %q, want existing shop", got)
	}
	galle := reload(b.Id)
	if galle == "" || galle == existing.Id {
		t.Errorf("B not linked to a new shop: %q", galle)
	}
	if got := reload(c.Id); got != galle {
		t.Errorf("C linked to %q, want same shop as B (%q)", got, galle)
	}
	if got := reload(d.Id); got != "" {
		t.Errorf("D without legacy name should stay unlinked, got %q", got)
	}

	shops, _ := app.FindAllRecords("shops")
	if len(shops) != 2 {
		t.Errorf("expected 2 shops after migration, got %d", len(shops))
	}
}

func TestMigrateLegacyShopNames_NothingToDo(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.MigrateLegacyShopNames(app); err != nil {
		t.Fatalf("MigrateLegacyShopNames() error: %v", err)
	}
}
