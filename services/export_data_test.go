package services

import (
	"testing"
	"time"
)

func sampleCalculations() []Calculation {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return []Calculation{
		{ItemName: "LED Strip", ShopName: "Pettah Traders", Qty: 10, RMBPrice: 25, ExchangeRate: 42, RMBAmount: 250, LKRAmount: 10500, FinalValue: 10500, UnitPrice: 1050, CreatedAt: created},
		{ItemName: "Cable Ties", ShopName: "", Qty: 100, RMBPrice: 0.5, ExchangeRate: 42, RMBAmount: 50, LKRAmount: 2100, FinalValue: 2100, UnitPrice: 21, CreatedAt: created},
		{ItemName: "Switch", ShopName: "Colombo Electric", Qty: 4, RMBPrice: 10, ExchangeRate: 42, RMBAmount: 40, LKRAmount: 1680, FinalValue: 1680, UnitPrice: 420, CreatedAt: created},
		{ItemName: "Bulb", ShopName: "Pettah Traders", Qty: 2, RMBPrice: 5, ExchangeRate: 42, RMBAmount: 10, LKRAmount: 420, FinalValue: 420, UnitPrice: 210, CreatedAt: created},
	}
}

func TestBuildExportData_GroupsAndSortsShops(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	data := BuildExportData("All Items Report", sampleCalculations(), now)

	if data.Title != "All Items Report - 2025-03-15" {
		t.Errorf("Title = %q", data.Title)
	}
	if data.TotalItems != 4 {
		t.Errorf("TotalItems = %d, want 4", data.TotalItems)
	}

	want := []string{"Colombo Electric", "No Shop", "Pettah Traders"}
	if len(data.Groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(data.Groups))
	}
	for i, name := range want {
		if data.Groups[i].ShopName != name {
			t.Errorf("group %d = %q, want %q", i, data.Groups[i].ShopName, name)
		}
	}

	pettah := data.Groups[2]
	if len(pettah.Rows) != 2 {
		t.Fatalf("expected 2 Pettah rows, got %d", len(pettah.Rows))
	}
	// input order is preserved within a shop
	if pettah.Rows[0].ItemName != "LED Strip" || pettah.Rows[1].ItemName != "Bulb" {
		t.Errorf("unexpected row order: %q, %q", pettah.Rows[0].ItemName, pettah.Rows[1].ItemName)
	}
	if pettah.TotalFinalValue != 10920 {
		t.Errorf("TotalFinalValue = %v, want 10920", pettah.TotalFinalValue)
	}
	if pettah.Rows[0].Date != "14 Mar 2025, 09:30" {
		t.Errorf("Date = %q", pettah.Rows[0].Date)
	}
}

func TestBuildExportData_Empty(t *testing.T) {
	data := BuildExportData("Report", nil, time.Now())
	if len(data.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(data.Groups))
	}
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := ExportFilename(day, "xlsx"); got != "items_by_shop_2025-01-02.xlsx" {
		t.Errorf("ExportFilename = %q", got)
	}
}
