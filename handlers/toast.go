package handlers

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
)

// dataChangedEvent is fired on every successful write so HTMX views
// (the dashboard) can refresh themselves.
const dataChangedEvent = "pricingChanged"

// triggerEvent adds name to the HX-Trigger response header, merging with any
// events already set. A malformed existing header is replaced.
func triggerEvent(e *core.RequestEvent, name string, value any) {
	events := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{}
		}
	}
	events[name] = value

	data, err := json.Marshal(events)
	if err != nil {
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// SetToast asks the client to show a toast notification.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	triggerEvent(e, "showToast", map[string]string{
		"message": message,
		"type":    toastType,
	})
}

// notifyChanged shows a success toast and fires the data-changed event.
func notifyChanged(e *core.RequestEvent, message string) {
	SetToast(e, "success", message)
	triggerEvent(e, dataChangedEvent, true)
}
