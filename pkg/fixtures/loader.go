package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
)

var createOp = regexp.MustCompile(`^create_(.+)$`)

// Loader creates fixtures and remembers them by bucket and name.
type Loader struct {
	store  Store
	types  *TypeRegistry
	silent bool
	out    io.Writer

	// bucket -> fixture name -> record, created on first use
	data map[string]map[string]Record
	// bucket -> type of the records held in it
	kinds map[string]ModelType
}

// NewLoader creates a Loader that persists through store and resolves model
// names with types.
func NewLoader(store Store, types *TypeRegistry) *Loader {
	return &Loader{
		store: store,
		types: types,
		out:   os.Stdout,
	}
}

// WithSilent suppresses the trace line written for each created fixture.
func (l *Loader) WithSilent(silent bool) *Loader {
	l.silent = silent
	return l
}

// WithOutput sets where trace lines are written.
func (l *Loader) WithOutput(w io.Writer) *Loader {
	l.out = w
	return l
}

// Create builds a record of the named model from attrs, persists it and
// registers it under name. A record already registered under the same
// bucket and name is replaced. The trace line repeats modelName as given.
func (l *Loader) Create(ctx context.Context, modelName, name string, attrs map[string]any) (Record, error) {
	t, err := l.types.Resolve(modelName)
	if err != nil {
		return nil, err
	}
	return l.create(ctx, t, modelName, name, attrs)
}

func (l *Loader) create(ctx context.Context, t ModelType, modelName, name string, attrs map[string]any) (Record, error) {
	rec, ok := t.New().(Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPersistable, t.QualifiedName())
	}

	if len(attrs) > 0 {
		if err := decode(attrs, rec); err != nil {
			return nil, fmt.Errorf("fixture %s(:%s): %w", modelName, name, err)
		}
	}

	if err := l.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("fixture %s(:%s): %w", modelName, name, err)
	}

	if l.data == nil {
		l.data = make(map[string]map[string]Record)
		l.kinds = make(map[string]ModelType)
	}
	if l.data[t.Bucket] == nil {
		l.data[t.Bucket] = make(map[string]Record)
	}
	l.data[t.Bucket][name] = rec
	l.kinds[t.Bucket] = t

	if !l.silent && l.out != nil {
		fmt.Fprintf(l.out, "-- create_%s(:%s)\n", modelName, name)
	}
	return rec, nil
}

// Lookup re-queries the record registered under bucket and name. It returns
// nil without error when the bucket has no such name, and ErrUnknownOperation
// when the bucket does not exist.
func (l *Loader) Lookup(ctx context.Context, bucket, name string) (Record, error) {
	records, ok := l.data[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, bucket)
	}
	stored, ok := records[name]
	if !ok {
		return nil, nil
	}

	t := l.kinds[bucket]
	fresh, ok := t.New().(Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPersistable, t.QualifiedName())
	}
	if err := l.store.Find(ctx, fresh, stored.RecordID(), t.Preload...); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Call dispatches op by name:
//
//	create_<Model>(name, attrs?)  creates a fixture of a persistable Model,
//	                              traced under its qualified name
//	<bucket>(name)                re-queries a fixture from an existing bucket
//
// Any other op fails with ErrUnknownOperation.
func (l *Loader) Call(ctx context.Context, op string, args ...any) (Record, error) {
	if m := createOp.FindStringSubmatch(op); m != nil {
		if t, err := l.types.Resolve(m[1]); err == nil && t.Persistable() {
			name, attrs, err := createArgs(op, args)
			if err != nil {
				return nil, err
			}
			return l.create(ctx, t, t.QualifiedName(), name, attrs)
		}
	}

	if _, ok := l.data[op]; ok {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: expected a fixture name", op)
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s: fixture name must be a string, got %T", op, args[0])
		}
		return l.Lookup(ctx, op, name)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
}

func createArgs(op string, args []any) (string, map[string]any, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", nil, fmt.Errorf("%s: expected a fixture name and optional attributes", op)
	}
	name, ok := args[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("%s: fixture name must be a string, got %T", op, args[0])
	}
	if len(args) == 1 || args[1] == nil {
		return name, nil, nil
	}
	attrs, ok := args[1].(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("%s: attributes must be a map, got %T", op, args[1])
	}
	return name, attrs, nil
}

// Ref returns the id of the record registered under bucket and name without
// querying the store.
func (l *Loader) Ref(bucket, name string) (uint, bool) {
	rec, ok := l.data[bucket][name]
	if !ok {
		return 0, false
	}
	return rec.RecordID(), true
}

// Buckets lists the buckets created so far.
func (l *Loader) Buckets() []string {
	buckets := make([]string, 0, len(l.data))
	for bucket := range l.data {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)
	return buckets
}

// Names lists the fixture names held in bucket.
func (l *Loader) Names(bucket string) []string {
	names := make([]string, 0, len(l.data[bucket]))
	for name := range l.data[bucket] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset forgets every registered fixture. Persisted records are untouched.
func (l *Loader) Reset() {
	l.data = nil
	l.kinds = nil
}

// snapshot copies the registry so a failed document load can be undone.
func (l *Loader) snapshot() (map[string]map[string]Record, map[string]ModelType) {
	if l.data == nil {
		return nil, nil
	}
	data := make(map[string]map[string]Record, len(l.data))
	for bucket, records := range l.data {
		copied := make(map[string]Record, len(records))
		for name, rec := range records {
			copied[name] = rec
		}
		data[bucket] = copied
	}
	kinds := make(map[string]ModelType, len(l.kinds))
	for bucket, t := range l.kinds {
		kinds[bucket] = t
	}
	return data, kinds
}
