// Package mailer delivers notification emails.
//
// Messages are first persisted as model.EmailMessage rows through the
// Outbox and then handed to a Sender. The SMTP sender uses gomail. When no
// relay is configured messages stay pending and can be sent later with
// `cmsctl messages deliver`.
package mailer
