package render

import (
	"time"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
)

// FieldView is a form field as an input or a read-only value
type FieldView struct {
	Label        string
	Name         string
	Type         string
	Required     bool
	Value        string
	Choices      []string
	Instructions string
	Errors       []string
}

// Fields builds the views of form's fields filled from entry. entry and errs
// may be nil.
func Fields(form *model.Form, entry *model.FormEntry, errs model.ValidationErrors) []FieldView {
	values := map[string]string{}
	if entry != nil {
		values = entry.Values()
	}

	views := make([]FieldView, 0, len(form.Fields))
	for i := range form.Fields {
		field := &form.Fields[i]
		name := field.Key()
		views = append(views, FieldView{
			Label:        field.Label,
			Name:         name,
			Type:         string(field.FieldType),
			Required:     field.Required,
			Value:        values[name],
			Choices:      field.ChoiceList(),
			Instructions: field.Instructions,
			Errors:       errs.On(name),
		})
	}
	return views
}

// Column is an index table column
type Column struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// ContentType describes how entries of a form are listed
type ContentType struct {
	DisplayName string   `json:"display_name"`
	Columns     []Column `json:"columns"`
}

// EntryContentType lists a form's entries with one column per field.
func EntryContentType(form *model.Form) ContentType {
	ct := ContentType{DisplayName: "Entry", Columns: []Column{}}
	for i := range form.Fields {
		ct.Columns = append(ct.Columns, Column{
			Label: form.Fields[i].Label,
			Name:  form.Fields[i].Key(),
		})
	}
	return ct
}

// Row is an entry as listed in the index table
type Row struct {
	ID        uint      `json:"id"`
	Values    []string  `json:"values"`
	CreatedAt time.Time `json:"created_at"`
}

// Rows reads the columns of ct from each entry.
func (ct ContentType) Rows(entries []model.FormEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for i := range entries {
		values := entries[i].Values()
		row := Row{ID: entries[i].ID, CreatedAt: entries[i].CreatedAt, Values: make([]string, len(ct.Columns))}
		for j, col := range ct.Columns {
			row.Values[j] = values[col.Name]
		}
		rows = append(rows, row)
	}
	return rows
}
