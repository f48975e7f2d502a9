package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the minimal page shells behind the route guard. The
// frontend bundle mounts onto these; the server only decides who may land
// where.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Page returns a handler rendering the shell for the named page.
func (h *PageHandler) Page(name string) echo.HandlerFunc {
	body := fmt.Sprintf(`<!doctype html><html><head><title>%s</title></head><body><div id="root" data-page=%q></div></body></html>`, name, name)
	return func(c echo.Context) error {
		return c.HTML(http.StatusOK, body)
	}
}
