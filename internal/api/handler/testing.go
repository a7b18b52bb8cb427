package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/canchago/go-court-reservation/internal/api"
)

// NewTestEcho builds an echo instance wired the way tests need it.
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
