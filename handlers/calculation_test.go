package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lkrpricing/config"
	"lkrpricing/services"
	"lkrpricing/testhelpers"
)

func calcBody(shopID string) map[string]any {
	return map[string]any{
		"item_name":     "LED Strip",
		"shop_id":       shopID,
		"qty":           4,
		"rmb_price":     2.5,
		"cmb_rate":      100,
		"cmb_amount":    2,
		"extra_tax":     50,
		"exchange_rate": 40,
	}
}

func TestHandleCalculationCreate_ComputesAndStores(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	shop := testhelpers.CreateTestShop(t, app, "Pettah Traders")

	req := jsonRequest(t, http.MethodPost, "/api/calculations", calcBody(shop.Id))
	rec := httptest.NewRecorder()
	if err := HandleCalculationCreate(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var got services.Calculation
	decodeJSON(t, rec, &got)
	if got.RMBAmount != 10 || got.LKRAmount != 400 || got.CMBValue != 200 {
		t.Errorf("intermediate values = %v / %v / %v, want 10 / 400 / 200", got.RMBAmount, got.LKRAmount, got.CMBValue)
	}
	if got.FinalValue != 650 || got.UnitPrice != 162.5 {
		t.Errorf("final/unit = %v / %v, want 650 / 162.5", got.FinalValue, got.UnitPrice)
	}
	if got.ShopName != "Pettah Traders" {
		t.Errorf("shop_name = %q, want expanded 'Pettah Traders'", got.ShopName)
	}

	stored, err := app.FindRecordById("calculations", got.ID)
	if err != nil {
		t.Fatalf("calculation not stored: %v", err)
	}
	if stored.GetFloat("final_value") != 650 {
		t.Errorf("stored final_value = %v", stored.GetFloat("final_value"))
	}
}

func TestHandleCalculationCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	shop := testhelpers.CreateTestShop(t, app, "Shop")

	tests := []struct {
		name      string
		mutate    func(b map[string]any)
		wantField string
		wantMsg   string
	}{
		{"blank item", func(b map[string]any) { b["item_name"] = " " }, "item_name", "Item name is required"},
		{"zero qty", func(b map[string]any) { b["qty"] = 0 }, "qty", "Quantity must be positive"},
		{"negative price", func(b map[string]any) { b["rmb_price"] = -1 }, "rmb_price", "RMB price must be non-negative"},
		{"negative rate", func(b map[string]any) { b["exchange_rate"] = -3 }, "exchange_rate", "Exchange rate must be greater than 0"},
		{"no shop", func(b map[string]any) { b["shop_id"] = "" }, "shop_id", "Shop selection is required"},
		{"unknown shop", func(b map[string]any) { b["shop_id"] = "doesnotexist123" }, "shop_id", "Selected shop does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := calcBody(shop.Id)
			tt.mutate(body)

			req := jsonRequest(t, http.MethodPost, "/api/calculations", body)
			rec := httptest.NewRecorder()
			if err := HandleCalculationCreate(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			assertStatus(t, rec, http.StatusBadRequest)

			var eb errorBody
			decodeJSON(t, rec, &eb)
			if eb.Error != "Invalid input data" {
				t.Errorf("error = %q", eb.Error)
			}
			if eb.Details[tt.wantField] != tt.wantMsg {
				t.Errorf("details[%s] = %q, want %q (all: %v)", tt.wantField, eb.Details[tt.wantField], tt.wantMsg, eb.Details)
			}
		})
	}

	total, _ := app.CountRecords("calculations")
	if total != 0 {
		t.Errorf("expected nothing saved, got %d rows", total)
	}
}

func TestHandleCalculationCreate_Fallbacks(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	shop := testhelpers.CreateTestShop(t, app, "Remembered")
	if _, err := services.SaveRate(app, 41.5, "manual"); err != nil {
		t.Fatalf("save rate: %v", err)
	}

	body := calcBody("")
	delete(body, "exchange_rate")

	req := jsonRequest(t, http.MethodPost, "/api/calculations", body)
	req = withSelectedShop(req, shop.Id, "Remembered")
	rec := httptest.NewRecorder()
	if err := HandleCalculationCreate(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var got services.Calculation
	decodeJSON(t, rec, &got)
	if got.ShopID != shop.Id {
		t.Errorf("shop_id = %q, want selected shop %q", got.ShopID, shop.Id)
	}
	if got.ExchangeRate != 41.5 {
		t.Errorf("exchange_rate = %v, want stored 41.5", got.ExchangeRate)
	}
}

func TestHandleCalculationList_FiltersAndTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	a := testhelpers.CreateTestShop(t, app, "Alpha Stores")
	b := testhelpers.CreateTestShop(t, app, "Beta Mart")
	testhelpers.CreateTestCalculation(t, app, a.Id, testhelpers.CalculationFields{ItemName: "Cable", FinalValue: 10})
	testhelpers.CreateTestCalculation(t, app, a.Id, testhelpers.CalculationFields{ItemName: "Bulb", FinalValue: 30})
	testhelpers.CreateTestCalculation(t, app, b.Id, testhelpers.CalculationFields{ItemName: "Cable", FinalValue: 20})

	tests := []struct {
		name      string
		target    string
		wantTotal string
		wantFirst string
		wantLen   int
	}{
		{"all", "/api/calculations", "3", "", 3},
		{"by item", "/api/calculations?q=cable", "2", "", 2},
		{"by shop name", "/api/calculations?q=beta", "1", "Cable", 1},
		{"by shop id", "/api/calculations?shop=" + a.Id + "&sort=final_value&order=asc", "2", "Cable", 2},
		{"sorted desc", "/api/calculations?sort=final_value", "3", "Bulb", 3},
		{"paged", "/api/calculations?sort=final_value&order=asc&page=2&per_page=2", "3", "Bulb", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			if err := HandleCalculationList(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			assertStatus(t, rec, http.StatusOK)

			if got := rec.Header().Get("X-Total-Count"); got != tt.wantTotal {
				t.Errorf("X-Total-Count = %q, want %q", got, tt.wantTotal)
			}
			var items []services.Calculation
			decodeJSON(t, rec, &items)
			if len(items) != tt.wantLen {
				t.Fatalf("got %d items, want %d", len(items), tt.wantLen)
			}
			if tt.wantFirst != "" && items[0].ItemName != tt.wantFirst {
				t.Errorf("first item = %q, want %q", items[0].ItemName, tt.wantFirst)
			}
		})
	}
}

func TestHandleCalculationView(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	shop := testhelpers.CreateTestShop(t, app, "Shop")
	calc := testhelpers.CreateTestCalculation(t, app, shop.Id, testhelpers.CalculationFields{ItemName: "Viewed"})

	req := httptest.NewRequest(http.MethodGet, "/api/calculations/"+calc.Id, nil)
	req.SetPathValue("id", calc.Id)
	rec := httptest.NewRecorder()
	if err := HandleCalculationView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var got services.Calculation
	decodeJSON(t, rec, &got)
	if got.ItemName != "Viewed" || got.ShopName != "Shop" {
		t.Errorf("unexpected calculation: %+v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/calculations/missing", nil)
	req.SetPathValue("id", "missing")
	rec = httptest.NewRecorder()
	if err := HandleCalculationView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusNotFound)
}

func TestHandleCalculationUpdate_BodyID(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	shop := testhelpers.CreateTestShop(t, app, "Shop")
	calc := testhelpers.CreateTestCalculation(t, app, shop.Id, testhelpers.CalculationFields{
		ItemName: "Before", Qty: 1, RMBPrice: 1, ExchangeRate: 40,
	})

	body := calcBody("")
	body["id"] = calc.Id
	body["item_name"] = "After"
	delete(body, "exchange_rate")

	req := jsonRequest(t, http.MethodPut, "/api/calculations", body)
	rec := httptest.NewRecorder()
	if err := HandleCalculationUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var got services.Calculation
	decodeJSON(t, rec, &got)
	if got.ItemName != "After" {
		t.Errorf("item_name = %q, want 'After'", got.ItemName)
	}
	if got.ShopID != shop.Id {
		t.Errorf("shop_id = %q, want kept %q", got.ShopID, shop.Id)
	}
	if got.ExchangeRate != 40 || got.FinalValue != 650 {
		t.Errorf("rate/final = %v / %v, want 40 / 650", got.ExchangeRate, got.FinalValue)
	}
}

func TestHandleCalculationUpdate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(t, http.MethodPut, "/api/calculations/nope", calcBody(""))
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	if err := HandleCalculationUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusNotFound)
}

func TestHandleCalculationDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	calc := testhelpers.CreateTestCalculation(t, app, "", testhelpers.CalculationFields{ItemName: "Bye", LegacyShopName: "Old"})

	req := httptest.NewRequest(http.MethodDelete, "/api/calculations?id="+calc.Id, nil)
	rec := httptest.NewRecorder()
	if err := HandleCalculationDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["message"] != "Calculation deleted successfully" {
		t.Errorf("message = %q", body["message"])
	}
	if _, err := app.FindRecordById("calculations", calc.Id); err == nil {
		t.Error("expected calculation to be deleted")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/calculations", nil)
	if err := HandleCalculationDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleCalculationPreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := calcBody("")
	body["item_name"] = ""
	req := jsonRequest(t, http.MethodPost, "/api/calculations/preview", body)
	rec := httptest.NewRecorder()
	if err := HandleCalculationPreview(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var got previewResponse
	decodeJSON(t, rec, &got)
	if got.ExchangeRate != 40 || got.FinalValue != 650 || got.UnitPrice != 162.5 {
		t.Errorf("unexpected preview: %+v", got)
	}

	total, _ := app.CountRecords("calculations")
	if total != 0 {
		t.Errorf("preview must not save, found %d rows", total)
	}
}

func TestHandleCalculationPreview_DefaultRate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := calcBody("")
	delete(body, "exchange_rate")
	req := jsonRequest(t, http.MethodPost, "/api/calculations/preview", body)
	rec := httptest.NewRecorder()
	if err := HandleCalculationPreview(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var got previewResponse
	decodeJSON(t, rec, &got)
	if got.ExchangeRate != config.Default().DefaultExchangeRate {
		t.Errorf("exchange_rate = %v, want config default", got.ExchangeRate)
	}
}

func TestHandleCalculationList_NewestFirstByDefault(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCalculation(t, app, "", testhelpers.CalculationFields{ItemName: "Old"})
	time.Sleep(5 * time.Millisecond)
	testhelpers.CreateTestCalculation(t, app, "", testhelpers.CalculationFields{ItemName: "New"})

	req := httptest.NewRequest(http.MethodGet, "/api/calculations?sort=bogus&order=sideways", nil)
	rec := httptest.NewRecorder()
	if err := HandleCalculationList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var items []services.Calculation
	decodeJSON(t, rec, &items)
	if len(items) != 2 || items[0].ItemName != "New" {
		t.Errorf("expected newest first, got %+v", items)
	}
}

func TestHandleCalculationCreate_BlankDistributionShop(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	shop := testhelpers.CreateTestShop(t, app, "Shop")

	body := calcBody(shop.Id)
	body["shop_distribution"] = []map[string]any{{"shop_name": "   ", "qty": 2}}

	req := jsonRequest(t, http.MethodPost, "/api/calculations", body)
	rec := httptest.NewRecorder()
	if err := HandleCalculationCreate(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)

	var eb errorBody
	decodeJSON(t, rec, &eb)
	if eb.Details["shop_distribution.0.shop_name"] != "Shop name is required" {
		t.Errorf("details = %v", eb.Details)
	}
}
