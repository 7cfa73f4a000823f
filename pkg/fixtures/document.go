package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// RefTag marks a scalar naming an earlier fixture as bucket/name. It is
// replaced by that record's id.
const RefTag = "!ref"

// Statement is one fixture call of a document
type Statement struct {
	Op    string
	Name  string
	Attrs *yaml.Node
	Line  int
}

// LoadResult lists the fixtures a document created, as bucket/name
type LoadResult struct {
	Created []string `json:"created"`
}

// ParseDocument reads a YAML sequence of single-key mappings:
//
//	# fixtures.yml
//	- create_form:
//	    name: contact
//	    attrs:
//	      name: Contact
//	- create_form_entry:
//	    name: first
//	    attrs:
//	      form_id: !ref forms/contact
//
// A bare scalar value is taken as the fixture name with no attributes.
func ParseDocument(r io.Reader) ([]Statement, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: fixture document must be a sequence", root.Line)
	}

	statements := make([]Statement, 0, len(root.Content))
	for _, item := range root.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("line %d: each fixture must be a mapping with a single operation", item.Line)
		}
		stmt := Statement{Op: item.Content[0].Value, Line: item.Line}

		body := item.Content[1]
		switch body.Kind {
		case yaml.ScalarNode:
			stmt.Name = body.Value
		case yaml.MappingNode:
			for i := 0; i+1 < len(body.Content); i += 2 {
				key, value := body.Content[i], body.Content[i+1]
				switch key.Value {
				case "name":
					stmt.Name = value.Value
				case "attrs":
					stmt.Attrs = value
				default:
					return nil, fmt.Errorf("line %d: unknown key %q", key.Line, key.Value)
				}
			}
		default:
			return nil, fmt.Errorf("line %d: %s expects a name or a mapping", body.Line, stmt.Op)
		}

		if stmt.Name == "" {
			return nil, fmt.Errorf("line %d: %s has no fixture name", item.Line, stmt.Op)
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// LoadFromReader parses a fixture document and creates its fixtures in a
// single transaction. On failure nothing is persisted and the registry is
// left as it was.
func (l *Loader) LoadFromReader(ctx context.Context, r io.Reader) (*LoadResult, error) {
	statements, err := ParseDocument(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return l.Load(ctx, statements)
}

// LoadFromString parses and loads a fixture document from a string
func (l *Loader) LoadFromString(ctx context.Context, text string) (*LoadResult, error) {
	return l.LoadFromReader(ctx, strings.NewReader(text))
}

// Load applies statements in order.
func (l *Loader) Load(ctx context.Context, statements []Statement) (*LoadResult, error) {
	result := &LoadResult{}
	data, kinds := l.snapshot()
	outer := l.store

	err := outer.Transaction(ctx, func(tx Store) error {
		l.store = tx
		defer func() { l.store = outer }()

		for _, stmt := range statements {
			var attrs map[string]any
			if stmt.Attrs != nil {
				value, err := l.nodeValue(stmt.Attrs)
				if err != nil {
					return err
				}
				m, ok := value.(map[string]any)
				if !ok {
					return fmt.Errorf("line %d: attrs must be a mapping", stmt.Line)
				}
				attrs = m
			}

			var args []any
			if attrs != nil {
				args = []any{stmt.Name, attrs}
			} else {
				args = []any{stmt.Name}
			}
			rec, err := l.Call(ctx, stmt.Op, args...)
			if err != nil {
				return fmt.Errorf("line %d: %w", stmt.Line, err)
			}
			if rec == nil {
				return fmt.Errorf("line %d: %s has no fixture %q", stmt.Line, stmt.Op, stmt.Name)
			}
			if m := createOp.FindStringSubmatch(stmt.Op); m != nil {
				// Call only creates types that resolve
				t, _ := l.types.Resolve(m[1])
				result.Created = append(result.Created, t.Bucket+"/"+stmt.Name)
			}
		}
		return nil
	})
	if err != nil {
		l.data, l.kinds = data, kinds
		return nil, err
	}
	return result, nil
}

// nodeValue converts a YAML node to plain values, resolving !ref tags.
func (l *Loader) nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return l.nodeValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := l.nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := l.nodeValue(item)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil
	}

	if n.Tag == RefTag {
		bucket, name, ok := strings.Cut(n.Value, "/")
		if !ok {
			return nil, fmt.Errorf("line %d: %s expects bucket/name, got %q", n.Line, RefTag, n.Value)
		}
		id, ok := l.Ref(bucket, name)
		if !ok {
			return nil, fmt.Errorf("line %d: no fixture %q in %s", n.Line, name, bucket)
		}
		return id, nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
