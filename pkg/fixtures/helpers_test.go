package fixtures

import (
	"context"
	"errors"
	"reflect"
)

type widget struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Owner uint   `json:"owner_id"`
}

func (widget) TableName() string { return "widgets" }
func (w *widget) RecordID() uint { return w.ID }

type gadget struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (gadget) TableName() string { return "gadgets" }
func (g *gadget) RecordID() uint { return g.ID }

type setting struct {
	Key string `json:"key"`
}

// memStore keeps records in memory, assigning sequential ids.
type memStore struct {
	nextID    uint
	records   map[string]map[uint]Record
	creates   int
	finds     int
	failOn    string
	committed bool
}

func newMemStore() *memStore {
	return &memStore{records: map[string]map[uint]Record{}}
}

func (s *memStore) Create(_ context.Context, rec Record) error {
	if s.failOn != "" && s.failOn == rec.TableName() {
		return errors.New("insert failed")
	}
	s.creates++
	s.nextID++
	reflect.ValueOf(rec).Elem().FieldByName("ID").SetUint(uint64(s.nextID))
	if s.records[rec.TableName()] == nil {
		s.records[rec.TableName()] = map[uint]Record{}
	}
	s.records[rec.TableName()][s.nextID] = rec
	return nil
}

func (s *memStore) Find(_ context.Context, dest Record, id uint, _ ...string) error {
	s.finds++
	rec, ok := s.records[dest.TableName()][id]
	if !ok {
		return ErrRecordNotFound
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(rec).Elem())
	return nil
}

func (s *memStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	if err := fn(s); err != nil {
		return err
	}
	s.committed = true
	return nil
}

func testTypes() *TypeRegistry {
	types := NewTypeRegistry(CMSNamespace)
	types.MustRegister(ModelType{Namespace: CMSNamespace, Name: "Widget", New: func() any { return &widget{} }})
	types.MustRegister(ModelType{Name: "Widget", Bucket: "global_widgets", New: func() any { return &widget{} }})
	types.MustRegister(ModelType{Name: "Gadget", New: func() any { return &gadget{} }})
	types.MustRegister(ModelType{Name: "Gizmo", Bucket: "featured_gizmos", New: func() any { return &gadget{} }})
	types.MustRegister(ModelType{Name: "Setting", New: func() any { return &setting{} }})
	return types
}
