package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/mailer"
	"github.com/doodlesbykumbi/cms-in-go/pkg/render"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/cms-in-go/pkg/server/store/gorm"
)

type Server struct {
	Config *config.CMSConfig
	Router *mux.Router
	DB     *gorm.DB
	Views  *render.Renderer
	Outbox *mailer.Outbox

	FormsStore    store.FormsStore
	EntriesStore  store.EntriesStore
	MessagesStore store.MessagesStore
	HealthStore   store.HealthStore

	JWTMiddleware *middleware.JWTAuthenticator

	srv *http.Server
}

func NewServer(
	cfg *config.CMSConfig,
	db *gorm.DB,
	host string,
	port string,
) (*Server, error) {
	views, err := render.New()
	if err != nil {
		return nil, err
	}
	if !views.HasLayout(cfg.FormLayout) {
		return nil, fmt.Errorf("form_layout %q: %w (available: %v)", cfg.FormLayout, render.ErrUnknownLayout, views.Layouts())
	}

	messages := gormstore.NewMessagesStore(db)

	router := mux.NewRouter().UseEncodedPath()
	handler := middleware.Chain(router, middleware.RequestID, middleware.RequestLogger, middleware.Recovery)
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, handler),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:        cfg,
		Router:        router,
		DB:            db,
		Views:         views,
		Outbox:        mailer.NewOutbox(messages, mailer.NewSMTPSender(cfg), cfg.MailSender),
		FormsStore:    gormstore.NewFormsStore(db),
		EntriesStore:  gormstore.NewEntriesStore(db),
		MessagesStore: messages,
		HealthStore:   gormstore.NewHealthStore(db),
		JWTMiddleware: middleware.NewJWTAuthenticator([]byte(cfg.TokenSecret), cfg),
		srv:           srv,
	}, nil
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
