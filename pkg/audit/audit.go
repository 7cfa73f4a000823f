package audit

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// SDID constants for structured data IDs (RFC5424)
// 32473 is the documentation Private Enterprise Number (RFC5612)
const (
	CMSPEN      = 32473
	SDIDAuth    = "auth@32473"
	SDIDForm    = "form@32473"
	SDIDSubject = "subject@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
	SDIDMail    = "mail@32473"
)

// Syslog facility constants
const (
	FacilityUser     = 1  // LOG_USER - user-level messages
	FacilityMail     = 2  // LOG_MAIL - mail system
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - security/authorization messages (private)
)

// AppName is the RFC5424 APP-NAME of every audit record
const AppName = "cms"

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// record is one audit event stamped with where and when it happened. The
// syslog line and the messages row are both built from it.
type record struct {
	event    Event
	time     time.Time
	hostname string
	appName  string
	pid      int
}

func newRecord(event Event, now time.Time) record {
	hostname, _ := os.Hostname()
	return record{
		event:    event,
		time:     now.UTC(),
		hostname: hostname,
		appName:  AppName,
		pid:      os.Getpid(),
	}
}

// priority is facility*8 + severity
func (r record) priority() int {
	return r.event.Facility()*8 + int(r.event.Severity())
}

// syslogLine renders r as
// <PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (r record) syslogLine() string {
	hostname := r.hostname
	if hostname == "" {
		hostname = "-"
	}
	sd := formatStructuredData(r.event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	return fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		r.priority(),
		r.time.Format("2006-01-02T15:04:05.000Z"),
		hostname,
		r.appName,
		r.pid,
		r.event.MessageID(),
		sd,
		r.event.Message(),
	)
}

// Logger writes audit events as RFC5424 syslog lines. It is safe for
// concurrent use.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	now    func() time.Time
}

// NewLogger creates a logger writing to stdout
func NewLogger() *Logger {
	return &Logger{writer: os.Stdout, now: time.Now}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// Log writes event as one syslog line
func (l *Logger) Log(event Event) {
	l.write(newRecord(event, l.now()))
}

func (l *Logger) write(r record) {
	line := r.syslogLine()

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, line)
}

// formatStructuredData renders SD-ELEMENTs with sorted ids and params:
// [sdid param1="value1" param2="value2"][sdid2 ...]
func formatStructuredData(sd map[string]map[string]string) string {
	var b strings.Builder
	for _, sdid := range sortedKeys(sd) {
		b.WriteByte('[')
		b.WriteString(sdid)
		params := sd[sdid]
		for _, key := range sortedKeys(params) {
			b.WriteByte(' ')
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(escapeSDValue(params[key]))
		}
		b.WriteByte(']')
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var sdEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `]`, `\]`)

// escapeSDValue quotes a PARAM-VALUE, escaping backslash, quote and ']'
// (RFC5424 section 6.3.3)
func escapeSDValue(value string) string {
	return `"` + sdEscaper.Replace(value) + `"`
}

var (
	// DefaultLogger receives every event passed to Log
	DefaultLogger = NewLogger()

	// DefaultStore persists events when AUDIT_DATABASE_URL is set
	DefaultStore *Store

	auditEnabled     = true
	auditEnabledOnce sync.Once
	storeInitOnce    sync.Once
)

// IsEnabled reports whether audit logging is on. CMS_AUDIT_ENABLED=false
// (or 0, no) turns it off.
func IsEnabled() bool {
	auditEnabledOnce.Do(func() {
		if env := os.Getenv("CMS_AUDIT_ENABLED"); env != "" {
			auditEnabled = env != "false" && env != "0" && env != "no"
		}
	})
	return auditEnabled
}

// SetEnabled overrides CMS_AUDIT_ENABLED. Call it before the first Log.
func SetEnabled(enabled bool) {
	auditEnabledOnce.Do(func() {})
	auditEnabled = enabled
}

// Log writes event to the default logger and, when configured, the audit
// database. Database failures are reported through slog and never returned.
func Log(event Event) {
	if !IsEnabled() {
		return
	}

	r := newRecord(event, DefaultLogger.now())
	DefaultLogger.write(r)

	storeInitOnce.Do(func() {
		var err error
		DefaultStore, err = NewStore()
		if err != nil {
			slog.Warn("audit: failed to connect to audit database", slog.Any("error", err))
		}
	})

	if DefaultStore != nil {
		if err := DefaultStore.save(r); err != nil {
			slog.Warn("audit: failed to save event",
				slog.String("msgid", event.MessageID()),
				slog.Any("error", err),
			)
		}
	}
}
