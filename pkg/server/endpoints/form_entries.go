package endpoints

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doodlesbykumbi/cms-in-go/pkg/audit"
	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/identity"
	"github.com/doodlesbykumbi/cms-in-go/pkg/mailer"
	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/render"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// EntryResponse is the JSON form of a form entry
type EntryResponse struct {
	ID        uint              `json:"id"`
	FormID    uint              `json:"form_id"`
	Values    map[string]string `json:"values"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newEntryResponse(entry *model.FormEntry) EntryResponse {
	return EntryResponse{
		ID:        entry.ID,
		FormID:    entry.FormID,
		Values:    entry.Values(),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

// EntryListResponse is the JSON form of the entries index
type EntryListResponse struct {
	ContentType render.ContentType `json:"content_type"`
	Rows        []render.Row       `json:"rows"`
	Total       int64              `json:"total"`
	Page        int                `json:"page"`
	PerPage     int                `json:"per_page"`
	TotalPages  int                `json:"total_pages"`
	Order       string             `json:"order"`
}

// RegisterFormEntriesEndpoints registers public form submission and the
// authenticated entry pages.
func RegisterFormEntriesEndpoints(s *server.Server) {
	router := s.Router
	forms := s.FormsStore
	entries := s.EntriesStore
	views := s.Views
	cfg := s.Config
	auth := s.JWTMiddleware.Middleware

	// POST /forms/{form_id}/submit - Public submission
	router.HandleFunc("/forms/{form_id:[0-9]+}/submit", handleSubmitEntry(forms, entries, s.Outbox, views, cfg)).Methods("POST")

	// GET /forms/{form_id}/entries - Paginated entry list
	router.Handle("/forms/{form_id:[0-9]+}/entries", auth(handleListEntries(forms, entries, views, cfg))).Methods("GET")

	// GET /forms/{form_id}/entries/new - Blank entry
	router.Handle("/forms/{form_id:[0-9]+}/entries/new", auth(handleNewEntry(forms, views))).Methods("GET")

	// POST /forms/{form_id}/entries - Create an entry
	router.Handle("/forms/{form_id:[0-9]+}/entries", auth(handleCreateEntry(forms, entries, views, cfg))).Methods("POST")

	// GET /form_entries/{id} - Show an entry
	router.Handle("/form_entries/{id:[0-9]+}", auth(handleShowEntry(forms, entries, views))).Methods("GET")

	// GET /form_entries/{id}/edit - Edit an entry
	router.Handle("/form_entries/{id:[0-9]+}/edit", auth(handleEditEntry(forms, entries, views))).Methods("GET")

	// POST|PUT /form_entries/{id} - Update an entry
	router.Handle("/form_entries/{id:[0-9]+}", auth(handleUpdateEntry(forms, entries, views, cfg))).Methods("POST", "PUT")
}

func entryPath(id uint) string {
	return fmt.Sprintf("/form_entries/%d", id)
}

func entriesPath(formID uint) string {
	return fmt.Sprintf("/forms/%d/entries", formID)
}

// fetchForm loads the form named by the route variable, writing a 404 or
// 500 response when it can't.
func fetchForm(w http.ResponseWriter, r *http.Request, forms store.FormsStore, views *render.Renderer, id uint) (*model.Form, bool) {
	form, err := forms.FetchForm(id)
	if err != nil {
		if errors.Is(err, store.ErrFormNotFound) {
			respondWithStatus(w, r, views, http.StatusNotFound, fmt.Sprintf("Form %d not found", id))
			return nil, false
		}
		middleware.Logger(r.Context()).Error("failed to fetch form", slog.Uint64("form_id", uint64(id)), slog.Any("error", err))
		respondWithStatus(w, r, views, http.StatusInternalServerError, "Failed to load form")
		return nil, false
	}
	return form, true
}

// fetchEntry loads the entry named by the route variable, bound to its form.
func fetchEntry(w http.ResponseWriter, r *http.Request, forms store.FormsStore, entries store.EntriesStore, views *render.Renderer) (*model.FormEntry, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithStatus(w, r, views, http.StatusNotFound, "Entry not found")
		return nil, false
	}

	entry, err := entries.FetchEntry(id)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			respondWithStatus(w, r, views, http.StatusNotFound, fmt.Sprintf("Entry %d not found", id))
			return nil, false
		}
		middleware.Logger(r.Context()).Error("failed to fetch entry", slog.Uint64("entry_id", uint64(id)), slog.Any("error", err))
		respondWithStatus(w, r, views, http.StatusInternalServerError, "Failed to load entry")
		return nil, false
	}

	form, ok := fetchForm(w, r, forms, views, entry.FormID)
	if !ok {
		return nil, false
	}
	return entry.Bind(form), true
}

// readEntryParams writes a 400 response when the request has no entry values.
func readEntryParams(w http.ResponseWriter, r *http.Request, views *render.Renderer) (map[string]string, bool) {
	params, err := entryParams(w, r)
	if err != nil {
		respondWithStatus(w, r, views, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return params, true
}

func handleSubmitEntry(forms store.FormsStore, entries store.EntriesStore, outbox *mailer.Outbox, views *render.Renderer, cfg *config.CMSConfig) http.HandlerFunc {
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
		params, ok := readEntryParams(w, r, views)
		if !ok {
			return
		}

		clientIP := identity.ClientIP(r, cfg)
		entry := model.NewEntry(form)
		entry.Assign(params)

		if err := entries.CreateEntry(entry); err != nil {
			audit.Log(audit.EntrySubmitEvent{
				FormID:       form.ID,
				FormName:     form.Name,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: err.Error(),
			})

			var verrs model.ValidationErrors
			if errors.As(err, &verrs) {
				respondWithPage(w, r, views, http.StatusUnprocessableEntity, "forms/error", cfg.FormLayout, render.Context{
					"title":  form.Name,
					"form":   form,
					"errors": verrs,
					"fields": render.Fields(form, entry, verrs),
					"action": fmt.Sprintf("/forms/%d/submit", form.ID),
				})
				return
			}
			middleware.Logger(r.Context()).Error("failed to save entry", slog.Uint64("form_id", uint64(form.ID)), slog.Any("error", err))
			respondWithStatus(w, r, views, http.StatusInternalServerError, "Failed to save entry")
			return
		}

		audit.Log(audit.EntrySubmitEvent{
			FormID:   form.ID,
			FormName: form.Name,
			EntryID:  entry.ID,
			ClientIP: clientIP,
			Success:  true,
		})

		notifyNewEntry(r, outbox, cfg, form, entry)

		if form.ShowText() {
			respondWithPage(w, r, views, http.StatusOK, "forms/page", cfg.FormLayout, render.Context{
				"title": form.Name,
				"form":  form,
			})
			return
		}

		location := form.ConfirmationRedirect
		if strings.TrimSpace(location) == "" {
			location = "/"
		}
		http.Redirect(w, r, location, http.StatusFound)
	}
}

// notifyNewEntry records and sends the new-entry message when the form has a
// notification address. Failures are logged and audited but never fail the
// submission.
func notifyNewEntry(r *http.Request, outbox *mailer.Outbox, cfg *config.CMSConfig, form *model.Form, entry *model.FormEntry) {
	if strings.TrimSpace(form.NotificationEmail) == "" {
		return
	}

	msg := mailer.EntryNotification(form, cfg.AbsoluteURL(entryPath(entry.ID)))
	delivered, err := outbox.Enqueue(msg)

	event := audit.NotificationEvent{
		EntryID:    entry.ID,
		EmailID:    msg.ID,
		Recipients: msg.RecipientList(),
		Delivered:  delivered,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		middleware.Logger(r.Context()).Error("failed to send notification",
			slog.Uint64("entry_id", uint64(entry.ID)),
			slog.Any("error", err),
		)
	}
	audit.Log(event)
}

func handleListEntries(forms store.FormsStore, entries store.EntriesStore, views *render.Renderer, cfg *config.CMSConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, ok := pathID(r, "form_id")
		if !ok {
			respondWithStatus(w, r, views, http.StatusNotFound, "Form not found")
			return
		}

		query := r.URL.Query()
		page, err := positiveInt(query.Get("page"), 1)
		if err != nil {
			respondWithStatus(w, r, views, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		perPage, err := positiveInt(query.Get("per_page"), cfg.EntriesPerPage)
		if err != nil {
			respondWithStatus(w, r, views, http.StatusBadRequest, "per_page must be a positive integer")
			return
		}
		if cfg.EntriesPerPageMax > 0 && perPage > cfg.EntriesPerPageMax {
			perPage = cfg.EntriesPerPageMax
		}
		order, err := store.ParseOrder(query.Get("order"))
		if err != nil {
			respondWithStatus(w, r, views, http.StatusBadRequest, err.Error())
			return
		}

		form, ok := fetchForm(w, r, forms, views, formID)
		if !ok {
			return
		}

		list, err := entries.ListEntries(form.ID, store.ListOptions{Page: page, PerPage: perPage, Order: order})
		if err != nil {
			middleware.Logger(r.Context()).Error("failed to list entries", slog.Uint64("form_id", uint64(form.ID)), slog.Any("error", err))
			respondWithStatus(w, r, views, http.StatusInternalServerError, "Failed to list entries")
			return
		}

		contentType := render.EntryContentType(form)
		rows := contentType.Rows(list.Entries)

		if wantsJSON(r) {
			respondWithJSON(w, http.StatusOK, EntryListResponse{
				ContentType: contentType,
				Rows:        rows,
				Total:       list.Total,
				Page:        list.Page,
				PerPage:     list.PerPage,
				TotalPages:  list.TotalPages(),
				Order:       order,
			})
			return
		}

		pageURL := func(p int) string {
			if p < 1 || p > list.TotalPages() {
				return ""
			}
			v := url.Values{}
			v.Set("page", strconv.Itoa(p))
			v.Set("order", order)
			if query.Get("per_page") != "" {
				v.Set("per_page", strconv.Itoa(perPage))
			}
			return entriesPath(form.ID) + "?" + v.Encode()
		}

		respondWithPage(w, r, views, http.StatusOK, "form_entries/index", render.AdminLayout, render.Context{
			"title":         form.Name + " entries",
			"form":          form,
			"display_name":  contentType.DisplayName,
			"content_type":  contentType,
			"rows":          rows,
			"total":         list.Total,
			"page":          list.Page,
			"total_pages":   list.TotalPages(),
			"prev_url":      pageURL(list.Page - 1),
			"next_url":      pageURL(list.Page + 1),
			"id_order":      toggleOrder(order, "id", "asc"),
			"created_order": toggleOrder(order, "created_at", "desc"),
		})
	}
}

// positiveInt parses an optional query value.
func positiveInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("not a positive integer: %q", s)
	}
	return n, nil
}

// toggleOrder returns the order a column header links to: the opposite
// direction when the list is already sorted by column, else first.
func toggleOrder(current, column, first string) string {
	if current == column+" "+first {
		if first == "asc" {
			return column + " desc"
		}
		return column + " asc"
	}
	return column + " " + first
}

func entryFormContext(form *model.Form, entry *model.FormEntry, verrs model.ValidationErrors, action string) render.Context {
	return render.Context{
		"title":        form.Name,
		"form":         form,
		"entry":        entry,
		"display_name": render.EntryContentType(form).DisplayName,
		"errors":       verrs,
		"fields":       render.Fields(form, entry, verrs),
		"action":       action,
		"submit_label": "Save",
	}
}

func handleNewEntry(forms store.FormsStore, views *render.Renderer) http.HandlerFunc {
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

		entry := model.NewEntry(form)
		respondWithPage(w, r, views, http.StatusOK, "form_entries/new", render.AdminLayout,
			entryFormContext(form, entry, nil, entriesPath(form.ID)))
	}
}

func handleCreateEntry(forms store.FormsStore, entries store.EntriesStore, views *render.Renderer, cfg *config.CMSConfig) http.HandlerFunc {
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
		params, ok := readEntryParams(w, r, views)
		if !ok {
			return
		}

		entry := model.NewEntry(form)
		entry.Assign(params)

		event := audit.EntryUpdateEvent{
			UserID:    identity.Subject(r.Context()),
			ClientIP:  identity.ClientIP(r, cfg),
			FormID:    form.ID,
			Operation: "create",
		}

		if err := entries.CreateEntry(entry); err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithSaveError(w, r, views, err, "form_entries/new", entryFormContext(form, entry, nil, entriesPath(form.ID)))
			return
		}

		event.EntryID = entry.ID
		event.Success = true
		audit.Log(event)

		if wantsJSON(r) {
			w.Header().Set("Location", entryPath(entry.ID))
			respondWithJSON(w, http.StatusCreated, newEntryResponse(entry))
			return
		}
		http.Redirect(w, r, entriesPath(form.ID), http.StatusFound)
	}
}

// respondWithSaveError re-renders view with the field errors of a failed
// save, or reports a persistence failure.
func respondWithSaveError(w http.ResponseWriter, r *http.Request, views *render.Renderer, err error, view string, data render.Context) {
	var verrs model.ValidationErrors
	if !errors.As(err, &verrs) {
		if errors.Is(err, store.ErrEntryNotFound) {
			respondWithStatus(w, r, views, http.StatusNotFound, "Entry not found")
			return
		}
		middleware.Logger(r.Context()).Error("failed to save entry", slog.Any("error", err))
		respondWithStatus(w, r, views, http.StatusInternalServerError, "Failed to save entry")
		return
	}

	if wantsJSON(r) {
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
		return
	}

	form := data["form"].(*model.Form)
	entry := data["entry"].(*model.FormEntry)
	data["errors"] = verrs
	data["fields"] = render.Fields(form, entry, verrs)
	respondWithPage(w, r, views, http.StatusUnprocessableEntity, view, render.AdminLayout, data)
}

func handleShowEntry(forms store.FormsStore, entries store.EntriesStore, views *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := fetchEntry(w, r, forms, entries, views)
		if !ok {
			return
		}

		if wantsJSON(r) {
			respondWithJSON(w, http.StatusOK, newEntryResponse(entry))
			return
		}

		form := entry.Form()
		respondWithPage(w, r, views, http.StatusOK, "form_entries/show", render.AdminLayout, render.Context{
			"title":        fmt.Sprintf("%s entry #%d", form.Name, entry.ID),
			"form":         form,
			"entry":        entry,
			"display_name": render.EntryContentType(form).DisplayName,
			"fields":       render.Fields(form, entry, nil),
		})
	}
}

func handleEditEntry(forms store.FormsStore, entries store.EntriesStore, views *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := fetchEntry(w, r, forms, entries, views)
		if !ok {
			return
		}

		respondWithPage(w, r, views, http.StatusOK, "form_entries/edit", render.AdminLayout,
			entryFormContext(entry.Form(), entry, nil, entryPath(entry.ID)))
	}
}

func handleUpdateEntry(forms store.FormsStore, entries store.EntriesStore, views *render.Renderer, cfg *config.CMSConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := fetchEntry(w, r, forms, entries, views)
		if !ok {
			return
		}
		params, ok := readEntryParams(w, r, views)
		if !ok {
			return
		}

		form := entry.Form()
		entry.Assign(params)

		event := audit.EntryUpdateEvent{
			UserID:    identity.Subject(r.Context()),
			ClientIP:  identity.ClientIP(r, cfg),
			FormID:    form.ID,
			EntryID:   entry.ID,
			Operation: "update",
		}

		if err := entries.UpdateEntry(entry); err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithSaveError(w, r, views, err, "form_entries/edit", entryFormContext(form, entry, nil, entryPath(entry.ID)))
			return
		}

		event.Success = true
		audit.Log(event)

		if wantsJSON(r) {
			respondWithJSON(w, http.StatusOK, newEntryResponse(entry))
			return
		}
		http.Redirect(w, r, entryPath(entry.ID), http.StatusFound)
	}
}
