// Package model defines the database models for the CMS form module.
//
// This package contains GORM models that map to the CMS database schema.
//
// # Core Models
//
//   - Form: A submittable field schema with post-submission behavior
//   - FormField: A single field of a form (label, storage key, type)
//   - FormEntry: Values a visitor submitted against a form
//   - EmailMessage: An outgoing notification, persisted before delivery
//
// # Database Schema
//
//   - forms: Form configuration
//   - form_fields: Ordered fields of each form
//   - form_entries: Submitted values stored as a JSON object
//   - email_messages: Notification messages and their delivery state
//
// # Validation
//
// A FormEntry built with NewEntry is bound to its form and validated against
// the form's fields whenever it is saved. Entries loaded without a form (for
// example, seeded fixtures) skip validation.
package model
