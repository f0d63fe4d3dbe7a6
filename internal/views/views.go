// Package views holds the embedded HTML templates.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

// Layout wraps every page.
const Layout = "layout"

//go:embed templates/*.html
var templates embed.FS

// New returns a template engine over the embedded templates.
func New() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("money", Money)
	return engine
}

// Money formats an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
