package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/services"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// JSONError writes {"error": message} with the given status.
func JSONError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, errorBody{Error: message})
}

// ValidationError writes a 400 with per-field messages. Errors that are not
// field validation errors are reported under "body".
func ValidationError(e *core.RequestEvent, err error) error {
	details, ok := services.FieldErrors(err)
	if !ok {
		details = map[string]string{"body": err.Error()}
	}
	return e.JSON(http.StatusBadRequest, errorBody{Error: "Invalid input data", Details: details})
}

// ServerError logs the cause and writes a 500 with a generic message.
func ServerError(e *core.RequestEvent, component, message string, err error) error {
	e.App.Logger().Error(message,
		"component", component,
		"request_id", RequestID(e.Request),
		"error", err,
	)
	return JSONError(e, http.StatusInternalServerError, message)
}

// NotFoundOr maps sentinel not-found errors to 404 and anything else to 500.
func NotFoundOr(e *core.RequestEvent, component, message string, err error) error {
	switch {
	case errors.Is(err, services.ErrCalculationNotFound):
		return JSONError(e, http.StatusNotFound, "Calculation not found")
	case errors.Is(err, services.ErrShopNotFound):
		return JSONError(e, http.StatusNotFound, "Shop not found")
	}
	return ServerError(e, component, message, err)
}

// bindBody decodes the request body into dst and reports decode failures as
// a 400. The returned bool is false when a response has been written.
func bindBody(e *core.RequestEvent, dst any) (bool, error) {
	if err := e.BindBody(dst); err != nil {
		return false, JSONError(e, http.StatusBadRequest, "Invalid request body")
	}
	return true, nil
}
