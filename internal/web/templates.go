package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Page names.
const (
	homePage     = "home.html"
	listPage     = "list.html"
	myListsPage  = "my_lists.html"
	notFoundPage = "not_found.html"
)

// itemForm is the new-item text box and its validation error.
type itemForm struct {
	Action string
	Text   string
	Error  string
}

// listView is a list prepared for display.
type listView struct {
	ID         string
	Name       string
	Owner      string
	Items      []string
	SharedWith []string
}

// page is the data passed to every template.
type page struct {
	Email   string
	Message string
	Error   string

	Form       *itemForm
	List       *listView
	ShareError string

	Owner  string
	Owned  []listView
	Shared []listView
}

// parseTemplates builds one template set per page, each layered on the base layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{homePage, listPage, myListsPage, notFoundPage}
	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/base.html",
			"templates/item_form.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// render executes the named page into a buffer so that a template error
// never produces a half-written response.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data *page) {
	var buf bytes.Buffer
	if err := h.templates[name].ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
