package endpoints

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/cms-in-go/pkg/render"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/middleware"
)

// errorLayout is the layout error pages are rendered in
const errorLayout = "default"

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// wantsJSON reports whether the client asked for a JSON response
func wantsJSON(r *http.Request) bool {
	for _, accept := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(accept))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

// pathID reads a numeric route variable
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondWithPage renders view in layout and writes it with code
func respondWithPage(w http.ResponseWriter, r *http.Request, views *render.Renderer, code int, view, layout string, data render.Context) {
	body, err := views.Render(view, layout, data)
	if err != nil {
		middleware.Logger(r.Context()).Error("failed to render page",
			slog.String("view", view),
			slog.String("layout", layout),
			slog.Any("error", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// respondWithStatus writes an error as JSON or as an HTML error page,
// depending on what the client accepts.
func respondWithStatus(w http.ResponseWriter, r *http.Request, views *render.Renderer, code int, message string) {
	if wantsJSON(r) || views == nil {
		respondWithError(w, code, map[string]string{
			"code":    strings.ReplaceAll(strings.ToLower(http.StatusText(code)), " ", "_"),
			"message": message,
		})
		return
	}
	respondWithPage(w, r, views, code, "errors/status", errorLayout, render.Context{
		"title":       http.StatusText(code),
		"status":      code,
		"status_text": http.StatusText(code),
		"message":     message,
	})
}
