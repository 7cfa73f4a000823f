// Package db provides database connection utilities for the CMS.
//
// It opens PostgreSQL connections through GORM and embeds the SQL
// migrations applied by `cmsctl db migrate`.
//
// # Connection
//
//	database, err := db.Connect(db.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The gorm logger is silent unless CMS_LOG_LEVEL is debug or warn.
package db
