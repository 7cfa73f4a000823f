package endpoints

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// MockFormsStore implements store.FormsStore for testing using testify/mock
type MockFormsStore struct {
	mock.Mock
}

func NewMockFormsStore() *MockFormsStore {
	return &MockFormsStore{}
}

func (m *MockFormsStore) FetchForm(id uint) (*model.Form, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Form), args.Error(1)
}

func (m *MockFormsStore) ListForms() ([]model.Form, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Form), args.Error(1)
}

// MockEntriesStore implements store.EntriesStore for testing using testify/mock
type MockEntriesStore struct {
	mock.Mock
}

func NewMockEntriesStore() *MockEntriesStore {
	return &MockEntriesStore{}
}

func (m *MockEntriesStore) FetchEntry(id uint) (*model.FormEntry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FormEntry), args.Error(1)
}

func (m *MockEntriesStore) ListEntries(formID uint, opts store.ListOptions) (*store.EntryList, error) {
	args := m.Called(formID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.EntryList), args.Error(1)
}

func (m *MockEntriesStore) CreateEntry(entry *model.FormEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockEntriesStore) UpdateEntry(entry *model.FormEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

// MockMessagesStore implements store.MessagesStore for testing using testify/mock
type MockMessagesStore struct {
	mock.Mock
}

func NewMockMessagesStore() *MockMessagesStore {
	return &MockMessagesStore{}
}

func (m *MockMessagesStore) CreateMessage(msg *model.EmailMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockMessagesStore) PendingMessages(limit int) ([]model.EmailMessage, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmailMessage), args.Error(1)
}

func (m *MockMessagesStore) MarkDelivered(id uint, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
