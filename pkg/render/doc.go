// Package render renders the CMS HTML views.
//
// Views and layouts are pongo2 templates embedded in the binary. A view is
// rendered first and its output is placed into a layout as the `content`
// variable, so the layout used for public form pages can be chosen at
// runtime (config form_layout).
//
// Markdown content (form descriptions, confirmation text) is converted with
// goldmark and sanitized with the bluemonday UGC policy through the
// `markdown` template filter.
package render
