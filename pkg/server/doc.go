// Package server provides the HTTP server of the CMS.
//
// # Server Setup
//
//	srv, err := server.NewServer(config.Get(), db, "0.0.0.0", "8000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// # Components
//
// The Server struct holds:
//
//   - Config: the loaded CMS configuration
//   - Router: HTTP request router
//   - DB: Database connection
//   - Views: page and layout templates
//   - Outbox: notification mail persistence and delivery
//   - FormsStore, EntriesStore, MessagesStore, HealthStore: data access
//   - JWTMiddleware: bearer token validation for admin routes
//
// Every request gets an X-Request-ID and is written to the access log on
// stdout. Panics in handlers are turned into 500 responses.
package server
