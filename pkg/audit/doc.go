// Package audit provides audit logging for CMS operations.
//
// Records are written in RFC5424 syslog format to stdout and, when
// AUDIT_DATABASE_URL is set, persisted to the messages table.
//
// # Event Types
//
//   - EntrySubmitEvent: public form submissions, accepted or rejected
//   - EntryUpdateEvent: administrative entry creation and edits
//   - NotificationEvent: new-entry notification delivery
//   - AuthenticateEvent: admin bearer token checks
//
// # Usage
//
//	audit.Log(audit.EntrySubmitEvent{
//	    FormID:   form.ID,
//	    FormName: form.Name,
//	    EntryID:  entry.ID,
//	    ClientIP: ip,
//	    Success:  true,
//	})
//
// Audit logging can be disabled with CMS_AUDIT_ENABLED=false.
package audit
