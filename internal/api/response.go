package api

import "github.com/labstack/echo/v4"

// Envelope is the canonical response wrapper for every API reply. Success
// responses carry Data; error responses carry Message and the request Path.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Path       string `json:"path,omitempty"`
}

// OK writes a success envelope with the given status code and payload.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, StatusCode: status, Data: data})
}

// Fail writes an error envelope carrying the request path.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Path:       c.Request().URL.Path,
	})
}
