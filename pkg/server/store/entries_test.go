package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", DefaultOrder, false},
		{"id", "id asc", false},
		{"created_at DESC", "created_at desc", false},
		{"  updated_at   asc ", "updated_at asc", false},
		{"data", "", true},
		{"id sideways", "", true},
		{"id; DROP TABLE form_entries", "", true},
		{"id desc nulls", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrder(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListOptions_Offset(t *testing.T) {
	assert.Equal(t, 0, ListOptions{Page: 0, PerPage: 15}.Offset())
	assert.Equal(t, 0, ListOptions{Page: 1, PerPage: 15}.Offset())
	assert.Equal(t, 30, ListOptions{Page: 3, PerPage: 15}.Offset())
}

func TestEntryList_TotalPages(t *testing.T) {
	assert.Equal(t, 1, (&EntryList{Total: 0, PerPage: 15}).TotalPages())
	assert.Equal(t, 1, (&EntryList{Total: 15, PerPage: 15}).TotalPages())
	assert.Equal(t, 2, (&EntryList{Total: 16, PerPage: 15}).TotalPages())
	assert.Equal(t, 1, (&EntryList{Total: 16}).TotalPages())
}
