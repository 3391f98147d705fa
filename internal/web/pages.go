package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"Restock/internal/restock"
	"Restock/pkg/kit"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageIndex      = "index"
	pageAdminLogin = "admin_login"
	pageAdmin      = "admin"
)

type pages map[string]*template.Template

func loadPages() (pages, error) {
	out := make(pages, 3)
	for _, name := range []string{pageIndex, pageAdminLogin, pageAdmin} {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// render buffers the page so a template error can still become a clean 500.
func (p pages) render(w http.ResponseWriter, name string, data any) error {
	t, ok := p[name]
	if !ok {
		return fmt.Errorf("unknown page %s", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	return nil
}

type indexData struct {
	Flash    *kit.Flash
	Products []restock.Product
}

type loginData struct {
	Flash *kit.Flash
}

type adminData struct {
	Flash         *kit.Flash
	Admin         string
	Products      []restock.Product
	Subscriptions []restock.SubscriptionView
}
