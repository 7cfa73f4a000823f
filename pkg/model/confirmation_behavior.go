package model

//go:generate go run github.com/dmarkham/enumer -type ConfirmationBehavior -trimprefix ConfirmationBehavior -transform snake -json -text -sql -output confirmation_behavior.gen.go

// ConfirmationBehavior decides what a visitor sees after a successful submission.
type ConfirmationBehavior int

const (
	// ConfirmationBehaviorShowText renders the form's confirmation text inline.
	ConfirmationBehaviorShowText ConfirmationBehavior = iota
	// ConfirmationBehaviorRedirect redirects to the form's confirmation location.
	ConfirmationBehaviorRedirect
)
