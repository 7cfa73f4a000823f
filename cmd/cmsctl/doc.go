// Command cmsctl runs the CMS forms server and its maintenance tasks.
//
// # Quick Start
//
//	# Create or upgrade the schema
//	cmsctl db migrate
//
//	# Seed forms from a fixture document
//	cmsctl fixtures load fixtures.yml
//
//	# Issue an admin token and start the server
//	cmsctl token issue admin
//	cmsctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CMS_CONFIG_PATH: directory holding cms.yml (default: /etc/cms/config)
//   - CMS_LOG_LEVEL: log level (debug, info, warn, error)
//   - CMS_AUDIT_ENABLED: set to false to disable the audit trail
//   - PORT: server port (default: 8000)
//
// Every cms.yml attribute can also be set as CMS_<ATTRIBUTE>; run
// "cmsctl configuration show" to see the effective values and their sources.
package main
