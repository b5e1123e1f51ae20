package prompts

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates
var templateFS embed.FS

// catalog maps each prompt to its parsed template and raw source.
type catalog struct {
	templates map[PromptID]*template.Template
	sources   map[PromptID]string
}

//nolint:gochecknoglobals // templates are immutable once parsed
var loadCatalog = sync.OnceValues(func() (*catalog, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
		"hasContent": func(s string) bool {
			return strings.TrimSpace(s) != ""
		},
	}

	c := &catalog{
		templates: make(map[PromptID]*template.Template, len(allPrompts)),
		sources:   make(map[PromptID]string, len(allPrompts)),
	}
	for _, id := range allPrompts {
		path := "templates/" + string(id) + ".tmpl"
		raw, err := templateFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(string(id)).Funcs(funcs).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		c.templates[id] = tmpl
		c.sources[id] = string(raw)
	}
	return c, nil
})

func lookup(id PromptID) (*template.Template, string, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, "", err
	}
	tmpl, ok := c.templates[id]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrPromptNotFound, id)
	}
	return tmpl, c.sources[id], nil
}
