package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/cms-in-go/pkg/mailer"
	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

type recordingSender struct {
	sent []*model.EmailMessage
}

func (s *recordingSender) Send(msg *model.EmailMessage) error {
	s.sent = append(s.sent, msg)
	return nil
}

func expectCreate(ts *testServer, id uint) {
	ts.entries.On("CreateEntry", mock.AnythingOfType("*model.FormEntry")).
		Run(func(args mock.Arguments) { args.Get(0).(*model.FormEntry).ID = id }).
		Return(nil).Once()
}

func TestSubmitEntry_ShowText(t *testing.T) {
	ts := newTestServer(t)
	form := contactForm()
	name := gofakeit.Name()

	ts.forms.On("FetchForm", uint(3)).Return(form, nil)
	expectCreate(ts, 11)
	ts.messages.On("CreateMessage", mock.AnythingOfType("*model.EmailMessage")).Return(nil).Once()

	w := ts.do(formRequest("POST", "/forms/3/submit", map[string]string{
		"form_entry[name]":  name,
		"form_entry[email]": "visitor@example.com",
	}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<strong>Thanks</strong> for writing in.")
	assert.Empty(t, w.Header().Get("Location"))

	saved := ts.entries.Calls[0].Arguments.Get(0).(*model.FormEntry)
	assert.Equal(t, uint(3), saved.FormID)
	assert.Equal(t, name, saved.Value("name"))

	ts.messages.AssertNumberOfCalls(t, "CreateMessage", 1)
	msg := ts.messages.Calls[0].Arguments.Get(0).(*model.EmailMessage)
	assert.Equal(t, "owner@example.com", msg.Recipients)
	assert.Equal(t, mailer.NotificationSubject, msg.Subject)
	assert.Equal(t, "cms@localhost", msg.Sender)
	assert.Contains(t, msg.Body, "A visitor has filled out the Contact form.")
	assert.Contains(t, msg.Body, "https://cms.example.com/form_entries/11")
}

func TestSubmitEntry_Redirect(t *testing.T) {
	ts := newTestServer(t)
	form := contactForm()
	form.ConfirmationBehavior = model.ConfirmationBehaviorRedirect
	form.ConfirmationRedirect = "/thanks"
	form.NotificationEmail = "  "

	ts.forms.On("FetchForm", uint(3)).Return(form, nil)
	expectCreate(ts, 12)

	w := ts.do(formRequest("POST", "/forms/3/submit", map[string]string{"form_entry[name]": "Ada"}))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/thanks", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "Thanks")
	ts.messages.AssertNotCalled(t, "CreateMessage", mock.Anything)
}

func TestSubmitEntry_DeliversWhenMailerConfigured(t *testing.T) {
	ts := newTestServer(t)
	sender := &recordingSender{}
	ts.Outbox.WithSender(sender)

	ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
	expectCreate(ts, 13)
	ts.messages.On("CreateMessage", mock.AnythingOfType("*model.EmailMessage")).
		Run(func(args mock.Arguments) { args.Get(0).(*model.EmailMessage).ID = 5 }).
		Return(nil)
	ts.messages.On("MarkDelivered", uint(5), mock.Anything).Return(nil)

	w := ts.do(formRequest("POST", "/forms/3/submit", map[string]string{"form_entry[name]": "Ada"}))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "owner@example.com", sender.sent[0].Recipients)
	ts.messages.AssertExpectations(t)
}

func TestSubmitEntry_NotificationFailureDoesNotFailSubmission(t *testing.T) {
	ts := newTestServer(t)

	ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
	expectCreate(ts, 14)
	ts.messages.On("CreateMessage", mock.Anything).Return(errors.New("disk full"))

	w := ts.do(formRequest("POST", "/forms/3/submit", map[string]string{"form_entry[name]": "Ada"}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitEntry_ValidationFailure(t *testing.T) {
	ts := newTestServer(t)

	verrs := model.ValidationErrors{{Field: "name", Message: "can't be blank"}}
	ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
	ts.entries.On("CreateEntry", mock.Anything).Return(verrs)

	w := ts.do(formRequest("POST", "/forms/3/submit", map[string]string{"form_entry[email]": "visitor@example.com"}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "1 error prohibited this entry from being saved")
	assert.Contains(t, body, "field-with-errors")
	assert.Contains(t, body, `value="visitor@example.com"`)
	assert.Contains(t, body, `action="/forms/3/submit"`)
	ts.messages.AssertNotCalled(t, "CreateMessage", mock.Anything)
}

func TestSubmitEntry_Errors(t *testing.T) {
	t.Run("unknown form", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(99)).Return(nil, store.ErrFormNotFound)

		w := ts.do(formRequest("POST", "/forms/99/submit", map[string]string{"form_entry[name]": "Ada"}))
		assert.Equal(t, http.StatusNotFound, w.Code)
		ts.entries.AssertNotCalled(t, "CreateEntry", mock.Anything)
	})

	t.Run("missing parameters", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)

		w := ts.do(formRequest("POST", "/forms/3/submit", map[string]string{"name": "Ada"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "form_entry")
		ts.entries.AssertNotCalled(t, "CreateEntry", mock.Anything)
	})

	t.Run("persistence failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
		ts.entries.On("CreateEntry", mock.Anything).Return(errors.New("connection reset"))

		req := formRequest("POST", "/forms/3/submit", map[string]string{"form_entry[name]": "Ada"})
		req.Header.Set("Accept", "application/json")
		w := ts.do(req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal_server_error")
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestSubmitEntry_JSONBody(t *testing.T) {
	ts := newTestServer(t)
	ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
	expectCreate(ts, 15)
	ts.messages.On("CreateMessage", mock.Anything).Return(nil)

	req := httptest.NewRequest("POST", "/forms/3/submit", strings.NewReader(`{"form_entry":{"name":"Grace","email":"grace@example.com"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := ts.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	saved := ts.entries.Calls[0].Arguments.Get(0).(*model.FormEntry)
	assert.Equal(t, "grace@example.com", saved.Value("email"))
}

func TestListEntries(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(httptest.NewRequest("GET", "/forms/3/entries", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		ts.forms.AssertNotCalled(t, "FetchForm", mock.Anything)
	})

	t.Run("renders the page", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)
		ts.entries.On("ListEntries", uint(3), store.ListOptions{Page: 2, PerPage: 15, Order: "id asc"}).
			Return(&store.EntryList{
				Entries: []model.FormEntry{*storedEntry(form, 16, map[string]string{"name": "Ada", "email": "ada@example.com"})},
				Total:   16,
				Page:    2,
				PerPage: 15,
			}, nil)

		w := ts.do(authorize(t, httptest.NewRequest("GET", "/forms/3/entries?page=2&order=ID+ASC", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Contact: Entry list")
		assert.Contains(t, body, "<th>Name</th>")
		assert.Contains(t, body, "<th>Email</th>")
		assert.Contains(t, body, "ada@example.com")
		assert.Contains(t, body, "Page 2 of 2")
		assert.Contains(t, body, `href="/forms/3/entries?order=id+asc&amp;page=1"`)
		assert.Contains(t, body, `href="?order=id desc"`)
		ts.entries.AssertExpectations(t)
	})

	t.Run("caps the page size", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
		ts.entries.On("ListEntries", uint(3), store.ListOptions{Page: 1, PerPage: 100, Order: store.DefaultOrder}).
			Return(&store.EntryList{Entries: []model.FormEntry{}, Page: 1, PerPage: 100}, nil)

		req := authorize(t, httptest.NewRequest("GET", "/forms/3/entries?per_page=5000", nil))
		req.Header.Set("Accept", "application/json")
		w := ts.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp EntryListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Entry", resp.ContentType.DisplayName)
		assert.Len(t, resp.ContentType.Columns, 2)
		assert.Empty(t, resp.Rows)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Equal(t, store.DefaultOrder, resp.Order)
	})

	t.Run("rejects an order outside the allowlist", func(t *testing.T) {
		for _, order := range []string{"name%20desc", "id%20sideways", "data%3Bdrop", "id%20asc%20nulls"} {
			t.Run(order, func(t *testing.T) {
				ts := newTestServer(t)
				req := authorize(t, httptest.NewRequest("GET", "/forms/3/entries?order="+order, nil))
				req.Header.Set("Accept", "application/json")
				w := ts.do(req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), "invalid order")
				ts.forms.AssertNotCalled(t, "FetchForm", mock.Anything)
				ts.entries.AssertNotCalled(t, "ListEntries", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("rejects a bad page", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(authorize(t, httptest.NewRequest("GET", "/forms/3/entries?page=0", nil)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown form", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(8)).Return(nil, store.ErrFormNotFound)
		w := ts.do(authorize(t, httptest.NewRequest("GET", "/forms/8/entries", nil)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewEntry(t *testing.T) {
	ts := newTestServer(t)
	ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)

	w := ts.do(authorize(t, httptest.NewRequest("GET", "/forms/3/entries/new", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Add a new Entry to Contact")
	assert.Contains(t, body, `name="form_entry[name]"`)
	assert.Contains(t, body, `action="/forms/3/entries"`)
}

func TestCreateEntry(t *testing.T) {
	t.Run("redirects to the index", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
		expectCreate(ts, 20)

		w := ts.do(authorize(t, formRequest("POST", "/forms/3/entries", map[string]string{"form_entry[name]": "Ada"})))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/forms/3/entries", w.Header().Get("Location"))
		ts.messages.AssertNotCalled(t, "CreateMessage", mock.Anything)
	})

	t.Run("re-renders new on failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
		ts.entries.On("CreateEntry", mock.Anything).
			Return(model.ValidationErrors{{Field: "email", Message: "is not a valid email address"}})

		w := ts.do(authorize(t, formRequest("POST", "/forms/3/entries", map[string]string{"form_entry[email]": "nope"})))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Add a new Entry to Contact")
		assert.Contains(t, w.Body.String(), "is not a valid email address")
	})

	t.Run("JSON", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(3)).Return(contactForm(), nil)
		expectCreate(ts, 21)

		req := authorize(t, httptest.NewRequest("POST", "/forms/3/entries", strings.NewReader(`{"form_entry":{"name":"Ada"}}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		w := ts.do(req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/form_entries/21", w.Header().Get("Location"))
		var resp EntryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Ada", resp.Values["name"])
	})
}

func TestShowEntry(t *testing.T) {
	t.Run("HTML", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		ts.entries.On("FetchEntry", uint(11)).Return(storedEntry(form, 11, map[string]string{"name": "Ada"}), nil)
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)

		w := ts.do(authorize(t, httptest.NewRequest("GET", "/form_entries/11", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Contact entry #11")
		assert.Contains(t, w.Body.String(), "<dd>Ada</dd>")
	})

	t.Run("JSON", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		ts.entries.On("FetchEntry", uint(11)).Return(storedEntry(form, 11, map[string]string{"name": "Ada"}), nil)
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)

		req := authorize(t, httptest.NewRequest("GET", "/form_entries/11", nil))
		req.Header.Set("Accept", "application/json")
		w := ts.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp EntryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, uint(11), resp.ID)
		assert.Equal(t, uint(3), resp.FormID)
		assert.Equal(t, "Ada", resp.Values["name"])
	})

	t.Run("not found", func(t *testing.T) {
		ts := newTestServer(t)
		ts.entries.On("FetchEntry", uint(404)).Return(nil, store.ErrEntryNotFound)

		w := ts.do(authorize(t, httptest.NewRequest("GET", "/form_entries/404", nil)))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Entry 404 not found")
	})
}

func TestEditEntry(t *testing.T) {
	ts := newTestServer(t)
	form := contactForm()
	ts.entries.On("FetchEntry", uint(11)).Return(storedEntry(form, 11, map[string]string{"name": "Ada"}), nil)
	ts.forms.On("FetchForm", uint(3)).Return(form, nil)

	w := ts.do(authorize(t, httptest.NewRequest("GET", "/form_entries/11/edit", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Edit Entry #11 of Contact")
	assert.Contains(t, body, `value="Ada"`)
	assert.Contains(t, body, `action="/form_entries/11"`)
}

func TestUpdateEntry(t *testing.T) {
	t.Run("redirects to the entry", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		ts.entries.On("FetchEntry", uint(11)).Return(storedEntry(form, 11, map[string]string{"name": "Ada"}), nil)
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)
		ts.entries.On("UpdateEntry", mock.AnythingOfType("*model.FormEntry")).Return(nil)

		w := ts.do(authorize(t, formRequest("PUT", "/form_entries/11", map[string]string{"form_entry[name]": "Grace"})))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/form_entries/11", w.Header().Get("Location"))

		updated := ts.entries.Calls[1].Arguments.Get(0).(*model.FormEntry)
		assert.Equal(t, "Grace", updated.Value("name"))
		assert.NotNil(t, updated.Form())
	})

	t.Run("re-renders edit on failure", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		ts.entries.On("FetchEntry", uint(11)).Return(storedEntry(form, 11, map[string]string{"name": "Ada"}), nil)
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)
		ts.entries.On("UpdateEntry", mock.Anything).
			Return(model.ValidationErrors{{Field: "name", Message: "can't be blank"}})

		w := ts.do(authorize(t, formRequest("POST", "/form_entries/11", map[string]string{"form_entry[name]": ""})))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Edit Entry #11 of Contact")
		assert.Contains(t, w.Body.String(), "be blank")
	})

	t.Run("JSON validation errors", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		ts.entries.On("FetchEntry", uint(11)).Return(storedEntry(form, 11, map[string]string{"name": "Ada"}), nil)
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)
		ts.entries.On("UpdateEntry", mock.Anything).
			Return(model.ValidationErrors{{Field: "admin", Message: "is not a permitted field"}})

		req := authorize(t, httptest.NewRequest("PUT", "/form_entries/11", strings.NewReader(`{"form_entry":{"admin":true}}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		w := ts.do(req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"admin"`)
	})

	t.Run("entry vanished", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		ts.entries.On("FetchEntry", uint(11)).Return(storedEntry(form, 11, nil), nil)
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)
		ts.entries.On("UpdateEntry", mock.Anything).Return(store.ErrEntryNotFound)

		w := ts.do(authorize(t, formRequest("PUT", "/form_entries/11", map[string]string{"form_entry[name]": "Ada"})))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestToggleOrder(t *testing.T) {
	assert.Equal(t, "id desc", toggleOrder("id asc", "id", "asc"))
	assert.Equal(t, "id asc", toggleOrder("created_at desc", "id", "asc"))
	assert.Equal(t, "created_at asc", toggleOrder("created_at desc", "created_at", "desc"))
	assert.Equal(t, "created_at desc", toggleOrder("id asc", "created_at", "desc"))
}

func TestPositiveInt(t *testing.T) {
	n, err := positiveInt("", 15)
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	n, err = positiveInt("3", 15)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"0", "-1", "abc"} {
		_, err := positiveInt(bad, 15)
		assert.Error(t, err, bad)
	}
}
