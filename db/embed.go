// Package db embeds the SQL migrations for production builds.
package db

import "embed"

// Migrations holds the SQL files under migrations/, read by
// `cmsctl db migrate` when built with the embed_migrations tag.
//
//go:embed migrations/*.sql
var Migrations embed.FS
