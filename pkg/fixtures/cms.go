package fixtures

import "github.com/doodlesbykumbi/cms-in-go/pkg/model"

// RegisterCMSTypes registers the CMS models in the CMS namespace.
func RegisterCMSTypes(r *TypeRegistry) {
	r.MustRegister(ModelType{
		Namespace: CMSNamespace,
		Name:      "Form",
		Bucket:    "forms",
		Preload:   []string{"Fields"},
		New:       func() any { return &model.Form{} },
	})
	r.MustRegister(ModelType{
		Namespace: CMSNamespace,
		Name:      "FormField",
		Bucket:    "form_fields",
		New:       func() any { return &model.FormField{} },
	})
	r.MustRegister(ModelType{
		Namespace: CMSNamespace,
		Name:      "FormEntry",
		Bucket:    "form_entries",
		New:       func() any { return &model.FormEntry{} },
	})
	r.MustRegister(ModelType{
		Namespace: CMSNamespace,
		Name:      "EmailMessage",
		Bucket:    "email_messages",
		New:       func() any { return &model.EmailMessage{} },
	})
}
