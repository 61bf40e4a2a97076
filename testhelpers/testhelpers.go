// Package testhelpers provides utilities for testing the pricing app against
// a real PocketBase instance.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: t.TempDir(),
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}
	if err := collections.Setup(app); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	t.Cleanup(func() { app.ResetBootstrapState() })
	return app
}

// CreateTestShop creates a shop record with the given name and returns it.
func CreateTestShop(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("shops")
	if err != nil {
		t.Fatalf("failed to find shops collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("shop_name", name)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test shop: %v", err)
	}
	return record
}

// CalculationFields are the raw column values for CreateTestCalculation.
// Derived columns are stored as given, so tests can create rows in any
// state.
type CalculationFields struct {
	ItemName       string
	LegacyShopName string
	Qty            float64
	RMBPrice       float64
	CMBRate        float64
	CMBAmount      float64
	ExtraTax       float64
	ExchangeRate   float64
	RMBAmount      float64
	FinalValue     float64
}

// CreateTestCalculation creates a calculation linked to shopID (may be empty).
func CreateTestCalculation(t *testing.T, app core.App, shopID string, f CalculationFields) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("calculations")
	if err != nil {
		t.Fatalf("failed to find calculations collection: %v", err)
	}
	if f.Qty == 0 {
		f.Qty = 1
	}
	if f.ExchangeRate == 0 {
		f.ExchangeRate = 42.1
	}

	record := core.NewRecord(col)
	record.Set("shop", shopID)
	record.Set("item_name", f.ItemName)
	record.Set("legacy_shop_name", f.LegacyShopName)
	record.Set("qty", f.Qty)
	record.Set("rmb_price", f.RMBPrice)
	record.Set("cmb_rate", f.CMBRate)
	record.Set("cmb_amount", f.CMBAmount)
	record.Set("extra_tax", f.ExtraTax)
	record.Set("exchange_rate", f.ExchangeRate)
	record.Set("rmb_amount", f.RMBAmount)
	record.Set("final_value", f.FinalValue)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test calculation: %v", err)
	}
	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
