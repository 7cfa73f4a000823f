package endpoints

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/render"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// RegisterFormsEndpoints registers the public form page and the form list
func RegisterFormsEndpoints(s *server.Server) {
	// GET /forms - List forms
	s.Router.Handle("/forms", s.JWTMiddleware.Middleware(handleListForms(s.FormsStore, s.Views))).Methods("GET")

	// GET /forms/{form_id} - Public form page
	s.Router.HandleFunc("/forms/{form_id:[0-9]+}", handleShowForm(s.FormsStore, s.Views, s.Config)).Methods("GET")
}

func handleListForms(forms store.FormsStore, views *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := forms.ListForms()
		if err != nil {
			middleware.Logger(r.Context()).Error("failed to list forms", slog.Any("error", err))
			respondWithStatus(w, r, views, http.StatusInternalServerError, "Failed to list forms")
			return
		}
		if list == nil {
			list = []model.Form{}
		}

		if wantsJSON(r) {
			respondWithJSON(w, http.StatusOK, list)
			return
		}
		respondWithPage(w, r, views, http.StatusOK, "forms/index", render.AdminLayout, render.Context{
			"title": "Forms",
			"forms": list,
		})
	}
}

func handleShowForm(forms store.FormsStore, views *render.Renderer, cfg *config.CMSConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, ok := pathID(r, "form_id")
		if !ok {
			respondWithStatus(w, r, views, http.StatusNotFound, "Form not found")
			return
		}
		form, ok := fetchForm(w, r, forms, views, formID)
		if !ok {
			return
		}

		if wantsJSON(r) {
			respondWithJSON(w, http.StatusOK, form)
			return
		}
		respondWithPage(w, r, views, http.StatusOK, "forms/show", cfg.FormLayout, render.Context{
			"title":  form.Name,
			"form":   form,
			"fields": render.Fields(form, model.NewEntry(form), nil),
			"action": fmt.Sprintf("/forms/%d/submit", form.ID),
		})
	}
}
