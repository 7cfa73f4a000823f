package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

func TestShowForm(t *testing.T) {
	t.Run("renders a blank form", func(t *testing.T) {
		ts := newTestServer(t)
		form := contactForm()
		form.Fields[1].DefaultValue = "someone@example.com"
		ts.forms.On("FetchForm", uint(3)).Return(form, nil)

		w := ts.do(httptest.NewRequest("GET", "/forms/3", nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `action="/forms/3/submit"`)
		assert.Contains(t, body, `name="form_entry[name]"`)
		assert.Contains(t, body, `value="someone@example.com"`)
		assert.NotContains(t, body, "prohibited this entry")
	})

	t.Run("not found", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("FetchForm", uint(5)).Return(nil, store.ErrFormNotFound)

		req := httptest.NewRequest("GET", "/forms/5", nil)
		req.Header.Set("Accept", "application/json")
		w := ts.do(req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"not_found"`)
	})
}

func TestListForms(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("ListForms").Return([]model.Form{{ID: 3, Name: "Contact"}}, nil)

		req := authorize(t, httptest.NewRequest("GET", "/forms", nil))
		req.Header.Set("Accept", "application/json")
		w := ts.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		var forms []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forms))
		require.Len(t, forms, 1)
		assert.Equal(t, "Contact", forms[0]["name"])
		assert.Equal(t, "show_text", forms[0]["confirmation_behavior"])
	})

	t.Run("HTML", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("ListForms").Return([]model.Form{{ID: 3, Name: "Contact", ConfirmationBehavior: model.ConfirmationBehaviorRedirect}}, nil)

		w := ts.do(authorize(t, httptest.NewRequest("GET", "/forms", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `<a href="/forms/3/entries">Entries</a>`)
		assert.Contains(t, w.Body.String(), "<td>redirect</td>")
	})

	t.Run("store failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.forms.On("ListForms").Return(nil, errors.New("timeout"))

		w := ts.do(authorize(t, httptest.NewRequest("GET", "/forms", nil)))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("requires a token", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(httptest.NewRequest("GET", "/forms", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
