package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// ListShops returns shops newest first, optionally filtered by a
// case-insensitive name substring, with per-shop calculation aggregates.
func ListShops(app core.App, query string) ([]Shop, error) {
	filter := ""
	params := map[string]any{}
	if q := strings.TrimSpace(query); q != "" {
		filter = "shop_name ~ {:q}"
		params["q"] = q
	}

	records, err := app.FindRecordsByFilter("shops", filter, "-created,-id", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}

	aggs, err := shopAggregates(app)
	if err != nil {
		return nil, err
	}

	shops := make([]Shop, 0, len(records))
	for _, rec := range records {
		s := ShopFromRecord(rec)
		if a, ok := aggs[rec.Id]; ok {
			s.CalculationCount = a.count
			s.TotalFinalValue = a.total.InexactFloat64()
		}
		shops = append(shops, s)
	}
	return shops, nil
}

type shopAggregate struct {
	count int
	total decimal.Decimal
}

func shopAggregates(app core.App) (map[string]shopAggregate, error) {
	records, err := app.FindAllRecords("calculations")
	if err != nil {
		return nil, fmt.Errorf("load calculations: %w", err)
	}

	out := make(map[string]shopAggregate)
	for _, rec := range records {
		shopID := rec.GetString("shop")
		if shopID == "" {
			continue
		}
		a := out[shopID]
		a.count++
		a.total = a.total.Add(decimal.NewFromFloat(rec.GetFloat("final_value")))
		out[shopID] = a
	}
	return out, nil
}

// FindShop returns the shop record or ErrShopNotFound.
func FindShop(app core.App, id string) (*core.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrShopNotFound
	}
	rec, err := app.FindRecordById("shops", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShopNotFound, id)
	}
	return rec, nil
}

// ShopCalculations returns a shop's calculations newest first.
func ShopCalculations(app core.App, shop *core.Record) ([]Calculation, error) {
	page, err := ListCalculations(app, ListParams{ShopID: shop.Id, Sort: defaultSort, Order: defaultOrder})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// SaveShop creates (rec nil) or renames a shop.
func SaveShop(app core.App, rec *core.Record, req ShopRequest) (*core.Record, error) {
	if rec == nil {
		col, err := app.FindCollectionByNameOrId("shops")
		if err != nil {
			return nil, fmt.Errorf("find shops collection: %w", err)
		}
		rec = core.NewRecord(col)
	}
	rec.Set("shop_name", strings.TrimSpace(req.ShopName))
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save shop: %w", err)
	}
	return rec, nil
}

// FindOrCreateShopByName looks a shop up by its exact trimmed name and
// creates it when missing.
func FindOrCreateShopByName(app core.App, name string) (*core.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("shop name is empty")
	}

	existing, err := app.FindFirstRecordByFilter("shops", "shop_name = {:name}", map[string]any{"name": name})
	if err == nil && existing != nil {
		return existing, nil
	}
	return SaveShop(app, nil, ShopRequest{ShopName: name})
}
