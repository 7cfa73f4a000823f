package render

import (
	"bytes"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
	ugcPolicy    *bluemonday.Policy
	strictPolicy *bluemonday.Policy
)

func initMarkdown() {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
		ugcPolicy = bluemonday.UGCPolicy()
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// Markdown converts src to sanitized HTML.
func Markdown(src string) (string, error) {
	initMarkdown()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// PlainText strips all markup from s.
func PlainText(s string) string {
	initMarkdown()
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

func filterMarkdown(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	html, err := Markdown(in.String())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:markdown", OrigError: err}
	}
	return pongo2.AsSafeValue(html), nil
}

func registerFilters() {
	if !pongo2.FilterExists("markdown") {
		_ = pongo2.RegisterFilter("markdown", filterMarkdown)
	}
}
