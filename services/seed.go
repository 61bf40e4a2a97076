package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

type seedItem struct {
	itemName  string
	qty       float64
	rmbPrice  float64
	cmbRate   float64
	cmbAmount float64
	extraTax  float64
}

type seedShop struct {
	name  string
	items []seedItem
}

var sampleShops = []seedShop{
	{
		name: "Pettah Traders",
		items: []seedItem{
			{"LED Strip 5m", 20, 18.5, 1200, 0.12, 400},
			{"Wall Switch (2 gang)", 50, 6.2, 1200, 0.08, 250},
		},
	},
	{
		name: "Colombo Electric",
		items: []seedItem{
			{"Ceiling Fan Regulator", 12, 32, 1150, 0.2, 600},
		},
	},
	{
		name: "Kandy Hardware",
		items: []seedItem{
			{"Cable Ties (100 pack)", 100, 3.5, 1100, 0.05, 0},
			{"Solar Garden Light", 8, 45, 1100, 0.3, 900},
		},
	},
}

// SeedSampleData inserts a few shops and calculations when the shops
// collection is empty. It reports whether anything was written.
func SeedSampleData(app core.App, exchangeRate float64) (bool, error) {
	count, err := app.CountRecords("shops")
	if err != nil {
		return false, fmt.Errorf("count shops: %w", err)
	}
	if count > 0 {
		app.Logger().Debug("seed: shops already exist, skipping", "component", "seed", "shops", count)
		return false, nil
	}

	calcCol, err := app.FindCollectionByNameOrId("calculations")
	if err != nil {
		return false, fmt.Errorf("seed: find calculations collection: %w", err)
	}

	err = app.RunInTransaction(func(txApp core.App) error {
		for _, s := range sampleShops {
			shop, err := SaveShop(txApp, nil, ShopRequest{ShopName: s.name})
			if err != nil {
				return fmt.Errorf("seed shop %q: %w", s.name, err)
			}

			for _, it := range s.items {
				rec := core.NewRecord(calcCol)
				ApplyRequest(rec, CalculationRequest{
					ShopID:       shop.Id,
					ItemName:     it.itemName,
					Qty:          it.qty,
					RMBPrice:     it.rmbPrice,
					CMBRate:      it.cmbRate,
					CMBAmount:    it.cmbAmount,
					ExtraTax:     it.extraTax,
					ExchangeRate: exchangeRate,
				})
				if err := txApp.Save(rec); err != nil {
					return fmt.Errorf("seed calculation %q: %w", it.itemName, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	app.Logger().Info("seed: sample data created", "component", "seed", "shops", len(sampleShops))
	return true, nil
}
