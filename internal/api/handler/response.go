package handler

import "github.com/labstack/echo/v4"

// envelope mirrors the canonical response wrapper rendered by the central
// error handler; handlers use it for success payloads.
type envelope struct {
	Success    bool `json:"success"`
	StatusCode int  `json:"statusCode"`
	Data       any  `json:"data,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, StatusCode: status, Data: data})
}
