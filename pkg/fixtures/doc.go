// Package fixtures creates persisted records by symbolic name and recalls
// them later.
//
// Model names are resolved through an explicit TypeRegistry: the CMS
// namespace is searched first, then the global one. Every created record is
// kept in a two-level registry, bucket then fixture name, where the bucket
// is the pluralized table-style name of the model (Form -> forms).
//
//	types := fixtures.NewTypeRegistry(fixtures.CMSNamespace)
//	fixtures.RegisterCMSTypes(types)
//
//	loader := fixtures.NewLoader(fixtures.NewGormStore(db), types).WithSilent(true)
//	form, err := loader.Call(ctx, "create_form", "contact", map[string]any{"name": "Contact"})
//	...
//	again, err := loader.Call(ctx, "forms", "contact") // re-queried from the database
//
// Fixture documents (see LoadDocument) list such calls in YAML and may
// reference earlier fixtures with the !ref tag.
//
// A Loader is not safe for concurrent use.
package fixtures
