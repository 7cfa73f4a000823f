package endpoints

import (
	"github.com/doodlesbykumbi/cms-in-go/pkg/server"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterFormsEndpoints(srv)
	RegisterFormEntriesEndpoints(srv)

	// Static files
	RegisterStaticFiles(srv)
}
