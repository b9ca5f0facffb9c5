// Package web provides the embedded web UI for the calculator.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/danielb987/SuperCalculator/pkg/calculator"
	"github.com/danielb987/SuperCalculator/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// historyLimit is the number of evaluations shown on the page.
const historyLimit = 20

// Handler serves the web UI pages.
type Handler struct {
	calc    *calculator.Calculator
	history *store.Store
	funcMap template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	Title string
	Data  interface{}
}

type calculatorContent struct {
	Expression string
	Current    *store.Evaluation
	History    []*store.Evaluation
	Variables  []variableView
	Functions  []string
}

type variableView struct {
	Name     string
	Value    string
	Type     string
	Constant bool
}

// New creates a new web UI handler.
func New(calc *calculator.Calculator, history *store.Store) *Handler {
	return &Handler{
		calc:    calc,
		history: history,
		funcMap: template.FuncMap{
			"timeAgo":     timeAgo,
			"formatTime":  formatTime,
			"truncate":    truncate,
			"resultClass": resultClass,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, title string, data interface{}) error {
	tmpl, err := template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("template error: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pageData{Title: title, Data: data}); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.calculator)
	app.Post("/ui/evaluate", h.evaluate)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

func (h *Handler) calculator(c *fiber.Ctx) error {
	content := calculatorContent{
		History:   h.history.List(historyLimit),
		Functions: h.calc.Functions().Names(),
	}

	if id := c.Query("id"); id != "" {
		if e, err := h.history.Get(id); err == nil {
			content.Current = e
			content.Expression = e.Expression
		}
	}

	sc := h.calc.Scope()
	values := sc.Snapshot()
	for _, name := range sc.Names() {
		v := values[name]
		content.Variables = append(content.Variables, variableView{
			Name:     name,
			Value:    h.calc.Format(v),
			Type:     v.Type().String(),
			Constant: sc.IsConstant(name),
		})
	}

	return h.render(c, "calculator.html", "Calculator", content)
}

func (h *Handler) evaluate(c *fiber.Ctx) error {
	_, rec := h.calc.Record(h.history, c.FormValue("expression"))
	return c.Redirect("/ui?id="+url.QueryEscape(rec.ID), fiber.StatusSeeOther)
}

// --- Template helpers ---

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func resultClass(e *store.Evaluation) string {
	if e.Failed() {
		return "result-error"
	}
	return "result-ok"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
