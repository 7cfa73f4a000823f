package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

const insertMessage = `
	INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Store persists audit events to the messages table
type Store struct {
	db *sql.DB
}

// NewStore opens the database named by AUDIT_DATABASE_URL. It returns a nil
// Store and no error when the variable is unset.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing connection
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save persists event stamped with the current time
func (s *Store) Save(event Event) error {
	return s.save(newRecord(event, time.Now()))
}

func (s *Store) save(r record) error {
	if s.db == nil {
		return nil
	}

	sdata, err := json.Marshal(r.event.StructuredData())
	if err != nil {
		return fmt.Errorf("failed to encode structured data: %w", err)
	}

	_, err = s.db.Exec(insertMessage,
		r.event.Facility(),
		int(r.event.Severity()),
		r.time,
		r.hostname,
		r.appName,
		r.pid,
		r.event.MessageID(),
		sdata,
		r.event.Message(),
	)
	return err
}

// DB returns the underlying connection
func (s *Store) DB() *sql.DB {
	return s.db
}
