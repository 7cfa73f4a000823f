package audit

import (
	"fmt"
	"strings"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// EntrySubmitEvent is a public form submission
type EntrySubmitEvent struct {
	FormID       uint
	FormName     string
	EntryID      uint
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e EntrySubmitEvent) MessageID() string {
	return "entry-submit"
}

func (e EntrySubmitEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("entry %d submitted to form %s", e.EntryID, e.FormName)
	}
	return withError(fmt.Sprintf("rejected submission to form %s", e.FormName), e.ErrorMessage)
}

func (e EntrySubmitEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityNotice
}

func (e EntrySubmitEvent) Facility() int {
	return FacilityUser
}

func (e EntrySubmitEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDForm: {
			"id":   fmt.Sprintf("%d", e.FormID),
			"name": e.FormName,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "submit",
			"result":    result(e.Success),
		},
	}
	if e.EntryID != 0 {
		sd[SDIDSubject] = map[string]string{"entry": fmt.Sprintf("%d", e.EntryID)}
	}
	return sd
}

// EntryUpdateEvent is an administrative create or update of an entry
type EntryUpdateEvent struct {
	UserID       string
	ClientIP     string
	FormID       uint
	EntryID      uint
	Operation    string // "create", "update"
	Success      bool
	ErrorMessage string
}

func (e EntryUpdateEvent) MessageID() string {
	return "entry-update"
}

func (e EntryUpdateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd entry %d of form %d", e.UserID, e.Operation, e.EntryID, e.FormID)
	}
	return withError(fmt.Sprintf("%s tried to %s an entry of form %d", e.UserID, e.Operation, e.FormID), e.ErrorMessage)
}

func (e EntryUpdateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e EntryUpdateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e EntryUpdateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDForm: {
			"id": fmt.Sprintf("%d", e.FormID),
		},
		SDIDSubject: {
			"entry": fmt.Sprintf("%d", e.EntryID),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// NotificationEvent records the fate of a new-entry notification email
type NotificationEvent struct {
	EntryID      uint
	EmailID      uint
	Recipients   []string
	Delivered    bool
	ErrorMessage string
}

func (e NotificationEvent) MessageID() string {
	return "notification"
}

func (e NotificationEvent) Message() string {
	to := strings.Join(e.Recipients, ", ")
	if e.Delivered {
		return fmt.Sprintf("notification for entry %d delivered to %s", e.EntryID, to)
	}
	return withError(fmt.Sprintf("notification for entry %d to %s is pending", e.EntryID, to), e.ErrorMessage)
}

func (e NotificationEvent) Severity() Severity {
	switch {
	case e.Delivered:
		return SeverityInfo
	case e.ErrorMessage != "":
		return SeverityError
	default:
		return SeverityNotice
	}
}

func (e NotificationEvent) Facility() int {
	return FacilityMail
}

func (e NotificationEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDMail: {
			"message":    fmt.Sprintf("%d", e.EmailID),
			"recipients": strings.Join(e.Recipients, ","),
		},
		SDIDSubject: {
			"entry": fmt.Sprintf("%d", e.EntryID),
		},
		SDIDAction: {
			"operation": "notify",
			"result":    result(e.Delivered),
		},
	}
}

// AuthenticateEvent is an admin token verification
type AuthenticateEvent struct {
	Subject      string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with a bearer token", e.Subject)
	}
	subject := e.Subject
	if subject == "" {
		subject = "anonymous"
	}
	return withError(fmt.Sprintf("%s failed to authenticate", subject), e.ErrorMessage)
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"authenticator": "bearer",
			"user":          e.Subject,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result(e.Success),
		},
	}
}
