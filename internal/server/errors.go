package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"aiproxy/internal/provider"
	"aiproxy/internal/router"
	"aiproxy/internal/translator"
)

const apiErrorType = "api_error"

type requestError struct {
	Status  int
	Message string
}

func (e requestError) Error() string {
	return e.Message
}

func badRequest(message string) requestError {
	return requestError{Status: http.StatusBadRequest, Message: message}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func writeError(c echo.Context, status int, message string) error {
	var payload errorBody
	payload.Error.Message = message
	payload.Error.Type = apiErrorType
	return c.JSON(status, payload)
}

func apiErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var reqErr requestError
	if errors.As(err, &reqErr) {
		_ = writeError(c, reqErr.Status, reqErr.Message)
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		_ = writeError(c, he.Code, message)
		return
	}

	_ = writeError(c, http.StatusInternalServerError, "internal server error")
}

// toHTTPError classifies dispatch failures into client-facing statuses.
func toHTTPError(err error) error {
	var reqErr requestError
	if errors.As(err, &reqErr) {
		return reqErr
	}

	switch {
	case errors.Is(err, router.ErrInvalidRequest):
		return badRequest(err.Error())
	case errors.Is(err, provider.ErrNoProvider):
		return requestError{Status: http.StatusServiceUnavailable, Message: err.Error()}
	case errors.Is(err, provider.ErrTransport), errors.Is(err, provider.ErrUpstream):
		slog.Warn("upstream request failed", "error", err)
		return requestError{Status: http.StatusBadGateway, Message: err.Error()}
	case errors.Is(err, translator.ErrConversion), errors.Is(err, router.ErrSerialization):
		slog.Error("response translation failed", "error", err)
		return requestError{Status: http.StatusInternalServerError, Message: err.Error()}
	default:
		slog.Error("unhandled dispatch error", "error", err)
		return requestError{Status: http.StatusInternalServerError, Message: "internal server error"}
	}
}
