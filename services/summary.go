package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ShopTotal is one shop's line in the dashboard summary.
type ShopTotal struct {
	ShopID          string  `json:"shop_id"`
	ShopName        string  `json:"shop_name"`
	Items           int     `json:"items"`
	TotalFinalValue float64 `json:"total_final_value"`
}

// Summary holds the dashboard figures.
type Summary struct {
	ShopsCount      int         `json:"shops_count"`
	UniqueItems     int         `json:"unique_items"`
	Calculations    int         `json:"calculations"`
	TotalFinalValue float64     `json:"total_final_value"`
	TotalRMBAmount  float64     `json:"total_rmb_amount"`
	PerShop         []ShopTotal `json:"per_shop"`
}

// Summarize aggregates calculations. Item names are compared lower-cased and
// trimmed. Sums are accumulated as decimals so long lists do not drift.
func Summarize(shops []Shop, calcs []Calculation) Summary {
	s := Summary{
		ShopsCount:   len(shops),
		Calculations: len(calcs),
	}

	perShop := make(map[string]*ShopTotal, len(shops))
	perShopSum := make(map[string]decimal.Decimal, len(shops))
	for _, shop := range shops {
		perShop[shop.ID] = &ShopTotal{ShopID: shop.ID, ShopName: shop.ShopName}
	}

	items := make(map[string]struct{})
	var totalFinal, totalRMB decimal.Decimal

	for _, c := range calcs {
		if name := strings.ToLower(strings.TrimSpace(c.ItemName)); name != "" {
			items[name] = struct{}{}
		}
		final := decimal.NewFromFloat(c.FinalValue)
		totalFinal = totalFinal.Add(final)
		totalRMB = totalRMB.Add(decimal.NewFromFloat(c.RMBAmount))

		if t, ok := perShop[c.ShopID]; ok {
			t.Items++
			perShopSum[c.ShopID] = perShopSum[c.ShopID].Add(final)
		}
	}

	s.UniqueItems = len(items)
	s.TotalFinalValue = totalFinal.Round(2).InexactFloat64()
	s.TotalRMBAmount = totalRMB.Round(2).InexactFloat64()

	s.PerShop = make([]ShopTotal, 0, len(perShop))
	for id, t := range perShop {
		t.TotalFinalValue = perShopSum[id].Round(2).InexactFloat64()
		s.PerShop = append(s.PerShop, *t)
	}
	sort.Slice(s.PerShop, func(i, j int) bool {
		if s.PerShop[i].TotalFinalValue != s.PerShop[j].TotalFinalValue {
			return s.PerShop[i].TotalFinalValue > s.PerShop[j].TotalFinalValue
		}
		return s.PerShop[i].ShopName < s.PerShop[j].ShopName
	})
	return s
}

// LoadSummary loads shops and calculations concurrently and summarizes them.
func LoadSummary(ctx context.Context, app core.App) (Summary, error) {
	var (
		shops []Shop
		calcs []Calculation
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := app.FindAllRecords("shops")
		if err != nil {
			return fmt.Errorf("load shops: %w", err)
		}
		shops = make([]Shop, 0, len(records))
		for _, rec := range records {
			shops = append(shops, ShopFromRecord(rec))
		}
		return nil
	})
	g.Go(func() error {
		records, err := app.FindAllRecords("calculations")
		if err != nil {
			return fmt.Errorf("load calculations: %w", err)
		}
		calcs = make([]Calculation, 0, len(records))
		for _, rec := range records {
			calcs = append(calcs, CalculationFromRecord(rec))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return Summarize(shops, calcs), nil
}
