// Package store provides storage abstractions for the CMS server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// Endpoint tests use testify mocks of these interfaces.
//
// # Available Stores
//
//   - FormsStore: Form definitions with their ordered fields
//   - EntriesStore: Form entries (fetch, paginated list, create, update)
//   - MessagesStore: Notification email outbox
//   - HealthStore: Database connectivity
//
// # Usage
//
//	entries := gormstore.NewEntriesStore(db)
//	entry, err := entries.FetchEntry(42)
//	if err != nil {
//	    if errors.Is(err, store.ErrEntryNotFound) {
//	        // Handle not found
//	    }
//	}
package store
