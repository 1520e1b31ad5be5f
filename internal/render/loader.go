package render

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

const templateExt = ".tmpl"

// TemplateLoader parses templates from the embedded files once and keeps them
type TemplateLoader struct {
	funcs template.FuncMap
	cache map[string]*template.Template
	mu    sync.RWMutex
}

// NewTemplateLoader creates a loader whose templates see funcs
func NewTemplateLoader(funcs template.FuncMap) *TemplateLoader {
	return &TemplateLoader{
		funcs: funcs,
		cache: make(map[string]*template.Template),
	}
}

// Load returns the parsed template called name ("budgets" for
// templates/budgets.tmpl)
func (l *TemplateLoader) Load(name string) (*template.Template, error) {
	l.mu.RLock()
	if tmpl, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return tmpl, nil
	}
	l.mu.RUnlock()

	fullPath := path.Join("templates", name+templateExt)
	content, err := templatesFS.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(l.funcs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = tmpl
	l.mu.Unlock()

	return tmpl, nil
}

// MustLoad loads a template and panics on error (for initialization)
func (l *TemplateLoader) MustLoad(name string) *template.Template {
	tmpl, err := l.Load(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load required template %s: %v", name, err))
	}
	return tmpl
}

// List returns the names of all embedded templates
func (l *TemplateLoader) List() ([]string, error) {
	var names []string

	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), templateExt) {
			names = append(names, strings.TrimSuffix(d.Name(), templateExt))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return names, nil
}
