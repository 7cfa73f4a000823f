package model

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func surveyForm() *Form {
	return &Form{
		ID:   7,
		Name: "Survey",
		Fields: []FormField{
			{Label: "Full Name", FieldType: FieldTypeTextField, Required: true},
			{Label: "Email", Name: "email", FieldType: FieldTypeEmail},
			{Label: "Colour", Name: "colour", FieldType: FieldTypeSelect, Choices: "red\n green \n\nblue"},
			{Label: "Source", Name: "source", FieldType: FieldTypeHidden, DefaultValue: "web"},
		},
	}
}

func TestNewEntry_BindsFormAndDefaults(t *testing.T) {
	form := surveyForm()
	entry := NewEntry(form)

	assert.Equal(t, uint(7), entry.FormID)
	assert.Same(t, form, entry.Form())
	assert.Equal(t, map[string]string{"source": "web"}, entry.Values())
	assert.Equal(t, []string{"full_name", "email", "colour", "source"}, entry.PermittedParams())
}

func TestFormEntry_AssignAndValidate(t *testing.T) {
	entry := NewEntry(surveyForm())
	name := gofakeit.Name()
	email := gofakeit.Email()

	entry.Assign(map[string]string{
		"full_name": name,
		"email":     email,
		"colour":    "green",
	})

	require.NoError(t, entry.Validate())
	assert.Equal(t, name, entry.Value("full_name"))
	assert.Equal(t, email, entry.Value("email"))
	assert.Equal(t, "web", entry.Value("source"))
}

func TestFormEntry_UnknownKeysAreRejected(t *testing.T) {
	entry := NewEntry(surveyForm())
	entry.Assign(map[string]string{
		"full_name": "Ada",
		"is_admin":  "true",
		"age":       "36",
	})

	assert.Empty(t, entry.Value("is_admin"))

	err := entry.Validate()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"is not a permitted field"}, verrs.On("age"))
	assert.Equal(t, []string{"is not a permitted field"}, verrs.On("is_admin"))
	assert.Equal(t, "age", verrs[0].Field)
}

func TestFormEntry_ValidationFailures(t *testing.T) {
	entry := NewEntry(surveyForm())
	entry.Assign(map[string]string{
		"full_name": "   ",
		"email":     "not-an-email",
		"colour":    "purple",
	})

	err := entry.Validate()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, map[string][]string{
		"full_name": {"can't be blank"},
		"email":     {"is not a valid email address"},
		"colour":    {"is not included in the list"},
	}, verrs.ByField())
	assert.Contains(t, err.Error(), "validation failed: full_name can't be blank")
}

func TestFormEntry_OptionalBlankFieldsAreValid(t *testing.T) {
	entry := NewEntry(surveyForm())
	entry.Assign(map[string]string{"full_name": "Ada", "email": "", "colour": ""})

	assert.NoError(t, entry.Validate())
}

func TestFormEntry_UnboundSkipsValidation(t *testing.T) {
	entry := &FormEntry{FormID: 7, Data: datatypes.JSON(`{"anything": 1}`)}

	assert.NoError(t, entry.Validate())
	assert.NoError(t, entry.BeforeSave(nil))
	assert.Nil(t, entry.PermittedParams())
}

func TestFormEntry_BeforeSaveUsesBoundForm(t *testing.T) {
	form := surveyForm()
	entry := (&FormEntry{FormID: 99}).Bind(form)
	entry.Assign(map[string]string{"full_name": "Ada"})

	require.NoError(t, entry.BeforeSave(nil))
	assert.Equal(t, form.ID, entry.FormID)
}

func TestFormEntry_ValuesFormatsNonStrings(t *testing.T) {
	entry := &FormEntry{Data: datatypes.JSON(`{"count": 3, "agreed": true, "note": null, "name": "Ada"}`)}

	assert.Equal(t, map[string]string{
		"count":  "3",
		"agreed": "true",
		"note":   "",
		"name":   "Ada",
	}, entry.Values())
}

func TestFormEntry_ValuesIgnoresBadJSON(t *testing.T) {
	entry := &FormEntry{Data: datatypes.JSON(`[1,2]`)}
	assert.Empty(t, entry.Values())
}
