package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates
var templates embed.FS

// AdminLayout is the layout of authenticated entry pages
const AdminLayout = "admin"

// ErrUnknownLayout is returned when a layout template doesn't exist
var ErrUnknownLayout = errors.New("unknown layout")

// Context is the data passed to a view
type Context = pongo2.Context

// Renderer renders views into layouts
type Renderer struct {
	set *pongo2.TemplateSet
	fs  fs.FS
}

// New creates a Renderer over the embedded templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: open templates: %w", err)
	}
	return NewFromFS(sub), nil
}

// NewFromFS creates a Renderer over templates laid out as layouts/, views/
// and partials/.
func NewFromFS(fsys fs.FS) *Renderer {
	registerFilters()
	return &Renderer{
		set: pongo2.NewSet("cms", rootLoader{pongo2.NewFSLoader(fsys)}),
		fs:  fsys,
	}
}

// rootLoader resolves every template name, includes too, from the root of
// the template FS.
type rootLoader struct {
	*pongo2.FSLoader
}

func (rootLoader) Abs(_, name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}

// Layouts lists the available layout names.
func (r *Renderer) Layouts() []string {
	entries, err := fs.ReadDir(r.fs, "layouts")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".html"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HasLayout reports whether layout exists.
func (r *Renderer) HasLayout(layout string) bool {
	_, err := fs.Stat(r.fs, layoutPath(layout))
	return err == nil
}

func layoutPath(layout string) string {
	return "layouts/" + layout + ".html"
}

// Render renders view inside layout. Nothing is returned unless both
// templates executed successfully.
func (r *Renderer) Render(view, layout string, data Context) ([]byte, error) {
	if !r.HasLayout(layout) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
	}

	viewTpl, err := r.set.FromCache("views/" + view + ".html")
	if err != nil {
		return nil, fmt.Errorf("render: load view %q: %w", view, err)
	}
	layoutTpl, err := r.set.FromCache(layoutPath(layout))
	if err != nil {
		return nil, fmt.Errorf("render: load layout %q: %w", layout, err)
	}

	ctx := Context{}
	ctx.Update(data)

	content, err := viewTpl.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("render: execute view %q: %w", view, err)
	}
	ctx["content"] = content
	if _, ok := ctx["title"]; !ok {
		ctx["title"] = "CMS"
	}

	var buf bytes.Buffer
	if err := layoutTpl.ExecuteWriter(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render: execute layout %q: %w", layout, err)
	}
	return buf.Bytes(), nil
}
