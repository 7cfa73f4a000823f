// Package config provides configuration management for the CMS server.
//
// This package handles loading and validating server configuration from a
// YAML configuration file and environment variables.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - $CMS_CONFIG_PATH/cms.yml (default /etc/cms/config/cms.yml)
//   - CMS_* environment variables
//
// Every attribute remembers which source it came from, see Source.
//
// # Key Configuration Options
//
//   - CMS_SITE_URL: Base URL used to build absolute links in notifications
//   - CMS_FORM_LAYOUT: Layout public form pages are rendered in
//   - CMS_SMTP_HOST: SMTP relay; notifications stay pending when unset
//   - CMS_TOKEN_SECRET: HMAC secret for admin API tokens
//   - CMS_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
package config
