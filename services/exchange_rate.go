package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/time/rate"

	"lkrpricing/collections"
	"lkrpricing/config"
)

// RateSourceDefault marks a rate that came from configuration because no
// row has been stored yet.
const RateSourceDefault = "default"

const liveQuoteStoreKey = "pricing.fx.liveQuote"

// RateInfo is the current or historical CNY->LKR rate.
type RateInfo struct {
	ID        string    `json:"id,omitempty"`
	Rate      float64   `json:"rate"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

func rateFromRecord(rec *core.Record) RateInfo {
	return RateInfo{
		ID:        rec.Id,
		Rate:      rec.GetFloat("rate"),
		Source:    rec.GetString("source"),
		UpdatedAt: rec.GetDateTime("created").Time(),
	}
}

// CurrentRate returns the newest stored rate, or fallback when none exists.
func CurrentRate(app core.App, fallback float64) (RateInfo, error) {
	records, err := app.FindRecordsByFilter("exchange_rates", "", "-created", 1, 0)
	if err != nil {
		return RateInfo{}, fmt.Errorf("load current rate: %w", err)
	}
	if len(records) == 0 {
		return RateInfo{Rate: fallback, Source: RateSourceDefault}, nil
	}
	return rateFromRecord(records[0]), nil
}

// SaveRate stores a new rate row, making it the current one.
func SaveRate(app core.App, value float64, source string) (RateInfo, error) {
	if value <= 0 {
		return RateInfo{}, ErrInvalidRate
	}

	col, err := app.FindCollectionByNameOrId("exchange_rates")
	if err != nil {
		return RateInfo{}, fmt.Errorf("find exchange_rates collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("rate", value)
	rec.Set("source", source)
	if err := app.Save(rec); err != nil {
		return RateInfo{}, fmt.Errorf("save rate: %w", err)
	}
	return rateFromRecord(rec), nil
}

// RateHistory returns up to limit stored rates, newest first.
func RateHistory(app core.App, limit int) ([]RateInfo, error) {
	if limit <= 0 || limit > 200 {
		limit = 30
	}
	records, err := app.FindRecordsByFilter("exchange_rates", "", "-created", limit, 0)
	if err != nil {
		return nil, fmt.Errorf("load rate history: %w", err)
	}
	out := make([]RateInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, rateFromRecord(rec))
	}
	return out, nil
}

// LiveQuote is a rate fetched from the FX API.
type LiveQuote struct {
	Rate      float64   `json:"rate"`
	Timestamp time.Time `json:"timestamp"`
}

// FXClient fetches the live CNY->LKR rate. Calls are throttled with a token
// bucket so a busy form cannot hammer the upstream API.
type FXClient struct {
	url      string
	ttl      time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	fallback float64
}

func NewFXClient(cfg *config.Config) *FXClient {
	perMinute := cfg.FXRequestsPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	return &FXClient{
		url:      cfg.FXAPIURL,
		ttl:      cfg.FXCacheTTL,
		http:     &http.Client{Timeout: cfg.FXTimeout},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		fallback: cfg.DefaultExchangeRate,
	}
}

// Fallback is the rate reported to clients when the live lookup fails.
func (c *FXClient) Fallback() float64 { return c.fallback }

// Fetch calls the FX API once. The response must report success and carry a
// positive LKR rate.
func (c *FXClient) Fetch(ctx context.Context) (LiveQuote, error) {
	if !c.limiter.Allow() {
		return LiveQuote{}, ErrRateLimited
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return LiveQuote{}, fmt.Errorf("build fx request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return LiveQuote{}, fmt.Errorf("fx request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LiveQuote{}, fmt.Errorf("fx api returned status %d", resp.StatusCode)
	}

	var body struct {
		Success bool               `json:"success"`
		Rates   map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return LiveQuote{}, fmt.Errorf("decode fx response: %w", err)
	}

	lkr := body.Rates["LKR"]
	if !body.Success || lkr <= 0 {
		return LiveQuote{}, errors.New("fx api returned no LKR rate")
	}
	return LiveQuote{Rate: lkr, Timestamp: time.Now().UTC()}, nil
}

// LiveRate returns the cached quote when it is younger than the TTL,
// otherwise fetches a new one and stores it as a "live" exchange rate row.
func (c *FXClient) LiveRate(ctx context.Context, app core.App) (LiveQuote, error) {
	if cached, ok := app.Store().GetOk(liveQuoteStoreKey); ok {
		if q, ok := cached.(LiveQuote); ok && time.Since(q.Timestamp) < c.ttl {
			return q, nil
		}
	}

	q, err := c.Fetch(ctx)
	if err != nil {
		return LiveQuote{}, err
	}

	if _, err := SaveRate(app, q.Rate, collections.RateSourceLive); err != nil {
		app.Logger().Error("store live rate failed", "component", "fx", "error", err)
	}
	app.Store().Set(liveQuoteStoreKey, q)
	return q, nil
}

// ResolveExchangeRate returns requested unless it is 0 ("not supplied"), in
// which case the current stored rate or else fallback is used. Negative
// values are returned as-is so validation can reject them.
func ResolveExchangeRate(app core.App, requested, fallback float64) float64 {
	if requested != 0 {
		return requested
	}
	info, err := CurrentRate(app, fallback)
	if err != nil {
		app.Logger().Warn("current rate unavailable, using default", "component", "fx", "error", err)
		return fallback
	}
	return info.Rate
}
