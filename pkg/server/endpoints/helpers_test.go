package endpoints

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/cms-in-go/pkg/audit"
	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/identity"
	"github.com/doodlesbykumbi/cms-in-go/pkg/mailer"
	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/render"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/middleware"
)

const testTokenSecret = "endpoint-test-secret"

func init() {
	audit.SetEnabled(false)
}

type testServer struct {
	*server.Server
	forms    *MockFormsStore
	entries  *MockEntriesStore
	messages *MockMessagesStore
	health   *MockHealthStore
}

// newTestServer builds a server over mock stores with every endpoint registered.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.NewDefault()
	cfg.SiteURL = "https://cms.example.com"
	cfg.TokenSecret = testTokenSecret

	views, err := render.New()
	require.NoError(t, err)

	ts := &testServer{
		forms:    NewMockFormsStore(),
		entries:  NewMockEntriesStore(),
		messages: NewMockMessagesStore(),
		health:   &MockHealthStore{},
	}
	ts.Server = &server.Server{
		Config:        cfg,
		Router:        mux.NewRouter().UseEncodedPath(),
		Views:         views,
		Outbox:        mailer.NewOutbox(ts.messages, nil, cfg.MailSender),
		FormsStore:    ts.forms,
		EntriesStore:  ts.entries,
		MessagesStore: ts.messages,
		HealthStore:   ts.health,
		JWTMiddleware: middleware.NewJWTAuthenticator([]byte(cfg.TokenSecret), cfg),
	}
	RegisterAll(ts.Server)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func authorize(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	token, err := identity.IssueToken([]byte(testTokenSecret), "admin", time.Hour, time.Now())
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func formRequest(method, target string, values map[string]string) *http.Request {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func contactForm() *model.Form {
	return &model.Form{
		ID:                   3,
		Name:                 "Contact",
		ConfirmationBehavior: model.ConfirmationBehaviorShowText,
		ConfirmationText:     "**Thanks** for writing in.",
		NotificationEmail:    "owner@example.com",
		Fields: []model.FormField{
			{ID: 1, FormID: 3, Label: "Name", Name: "name", FieldType: model.FieldTypeTextField, Required: true, Position: 1},
			{ID: 2, FormID: 3, Label: "Email", Name: "email", FieldType: model.FieldTypeEmail, Position: 2},
		},
	}
}

func storedEntry(form *model.Form, id uint, values map[string]string) *model.FormEntry {
	entry := model.NewEntry(form)
	entry.ID = id
	entry.Assign(values)
	entry.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entry.UpdatedAt = entry.CreatedAt
	// entries come back from the store unbound
	return &model.FormEntry{ID: entry.ID, FormID: entry.FormID, Data: entry.Data, CreatedAt: entry.CreatedAt, UpdatedAt: entry.UpdatedAt}
}
