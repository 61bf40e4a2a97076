package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/metrics"
)

type contextKey string

const (
	RequestIDKey    contextKey = "requestID"
	SelectedShopKey contextKey = "selectedShop"
)

const (
	requestIDHeader = "X-Request-ID"
	lastShopCookie  = "last_shop"
	lastShopMaxAge  = 60 * 60 * 24 * 30
)

// SelectedShop is the shop remembered by the last_shop cookie.
type SelectedShop struct {
	ID   string `json:"id"`
	Name string `json:"shop_name"`
}

// RequestID returns the request id set by RequestIDMiddleware, or "".
func RequestID(r *http.Request) string {
	if val, ok := r.Context().Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

// GetSelectedShop extracts the last selected shop from the request context.
func GetSelectedShop(r *http.Request) *SelectedShop {
	if val, ok := r.Context().Value(SelectedShopKey).(*SelectedShop); ok {
		return val
	}
	return nil
}

// RequestIDMiddleware reuses an incoming X-Request-ID or generates one, and
// echoes it on the response.
func RequestIDMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		e.Response.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(e.Request.Context(), RequestIDKey, id)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// MetricsMiddleware times every request and records it by route pattern.
func MetricsMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		status := e.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := e.Request.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(e.Request.Method, route, status, time.Since(start))
		return err
	}
}

// SelectedShopMiddleware reads the "last_shop" cookie, loads the shop record
// and stores it in the request context. A cookie pointing at a deleted shop
// is cleared.
func SelectedShopMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var selected *SelectedShop

		cookie, err := e.Request.Cookie(lastShopCookie)
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("shops", cookie.Value)
			if err == nil {
				selected = &SelectedShop{ID: rec.Id, Name: rec.GetString("shop_name")}
			} else {
				app.Logger().Debug("selected shop not found, clearing cookie", "component", "middleware", "id", cookie.Value)
				clearLastShopCookie(e)
			}
		}

		ctx := context.WithValue(e.Request.Context(), SelectedShopKey, selected)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

func setLastShopCookie(e *core.RequestEvent, shopID string) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:     lastShopCookie,
		Value:    shopID,
		Path:     "/",
		MaxAge:   lastShopMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearLastShopCookie(e *core.RequestEvent) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:   lastShopCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
