package fixtures

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gorm.io/gorm/schema"
)

// CMSNamespace is searched before the global namespace
const CMSNamespace = "cms"

// Record is a persistable fixture
type Record interface {
	schema.Tabler
	RecordID() uint
}

// ModelType describes how to build one kind of fixture
type ModelType struct {
	// Namespace is empty for global types
	Namespace string
	// Name is the unqualified CamelCase type name
	Name string
	// Bucket is the registry key; derived from Name when empty
	Bucket string
	// Preload lists associations loaded when the record is re-queried
	Preload []string
	// New returns a fresh zero value, normally a pointer to a gorm model
	New func() any
}

// QualifiedName returns "namespace/Name", or Name for global types
func (t ModelType) QualifiedName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "/" + t.Name
}

// Persistable reports whether instances of the type can be stored
func (t ModelType) Persistable() bool {
	if t.New == nil {
		return false
	}
	_, ok := t.New().(Record)
	return ok
}

// BucketName derives a bucket key from a type name: lower-case underscore
// form, pluralized (DynamicPortlet -> dynamic_portlets).
func BucketName(name string) string {
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	return schema.NamingStrategy{}.TableName(name)
}

// Camelize turns snake_case or CamelCase names into CamelCase.
func Camelize(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TypeRegistry maps model names to constructors
type TypeRegistry struct {
	namespace string
	types     map[string]ModelType
}

// NewTypeRegistry creates a registry that searches namespace before the
// global namespace.
func NewTypeRegistry(namespace string) *TypeRegistry {
	return &TypeRegistry{
		namespace: namespace,
		types:     make(map[string]ModelType),
	}
}

// Register adds t, replacing any type with the same qualified name.
func (r *TypeRegistry) Register(t ModelType) error {
	if t.Name == "" {
		return fmt.Errorf("model type has no name")
	}
	if t.New == nil {
		return fmt.Errorf("model type %s has no constructor", t.QualifiedName())
	}
	if t.Bucket == "" {
		t.Bucket = BucketName(t.Name)
	}
	r.types[t.QualifiedName()] = t
	return nil
}

// MustRegister is like Register but panics on error.
func (r *TypeRegistry) MustRegister(t ModelType) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Resolve finds the type for name, trying the registry namespace first.
func (r *TypeRegistry) Resolve(name string) (ModelType, error) {
	camel := Camelize(name)
	if r.namespace != "" {
		if t, ok := r.types[r.namespace+"/"+camel]; ok {
			return t, nil
		}
	}
	if t, ok := r.types[camel]; ok {
		return t, nil
	}
	return ModelType{}, fmt.Errorf("%w: %s", ErrUnresolvableType, name)
}

// Names lists the qualified names of all registered types.
func (r *TypeRegistry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
