package fixtures

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	statements, err := ParseDocument(strings.NewReader(`
- create_widget:
    name: foo
    attrs:
      name: Foo
      size: 2
- create_gadget: bar
`))
	require.NoError(t, err)
	require.Len(t, statements, 2)

	assert.Equal(t, "create_widget", statements[0].Op)
	assert.Equal(t, "foo", statements[0].Name)
	assert.NotNil(t, statements[0].Attrs)
	assert.Equal(t, "create_gadget", statements[1].Op)
	assert.Equal(t, "bar", statements[1].Name)
	assert.Nil(t, statements[1].Attrs)
}

func TestParseDocument_Errors(t *testing.T) {
	tests := map[string]string{
		"not a sequence": "create_widget: foo\n",
		"two operations": "- {create_widget: foo, create_gadget: bar}\n",
		"unknown key":    "- create_widget: {name: foo, colour: red}\n",
		"missing name":   "- create_widget: {attrs: {name: Foo}}\n",
		"invalid body":   "- create_widget: [foo]\n",
		"malformed yaml": "- create_widget: {name: foo\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseDocument_Empty(t *testing.T) {
	statements, err := ParseDocument(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, statements)
}

func TestLoader_LoadFromString(t *testing.T) {
	loader, store, out := newTestLoader()

	result, err := loader.LoadFromString(context.Background(), `
- create_widget:
    name: foo
    attrs:
      name: Foo
- create_widget:
    name: bar
    attrs:
      name: Bar
      owner_id: !ref widgets/foo
- widgets: foo
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"widgets/foo", "widgets/bar"}, result.Created)
	assert.True(t, store.committed)
	assert.Equal(t, "-- create_cms/Widget(:foo)\n-- create_cms/Widget(:bar)\n", out.String())

	bar, err := loader.Lookup(context.Background(), "widgets", "bar")
	require.NoError(t, err)
	assert.Equal(t, uint(1), bar.(*widget).Owner)
}

func TestLoader_LoadRestoresRegistryOnFailure(t *testing.T) {
	ctx := context.Background()
	loader, _, _ := newTestLoader()

	_, err := loader.Create(ctx, "Widget", "existing", nil)
	require.NoError(t, err)

	_, err = loader.LoadFromString(ctx, `
- create_widget: foo
- create_widget:
    name: bar
    attrs:
      owner_id: !ref widgets/missing
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
	assert.Equal(t, []string{"existing"}, loader.Names("widgets"))
}

func TestLoader_LoadRejectsMalformedRef(t *testing.T) {
	loader, _, _ := newTestLoader()

	_, err := loader.LoadFromString(context.Background(), `
- create_widget:
    name: bar
    attrs:
      owner_id: !ref foo
`)
	assert.ErrorContains(t, err, "bucket/name")
}

func TestLoader_LoadUnknownLookup(t *testing.T) {
	loader, _, _ := newTestLoader()
	_, err := loader.LoadFromString(context.Background(), "- create_widget: foo\n- widgets: bar\n")
	assert.ErrorContains(t, err, `no fixture "bar"`)
}

func TestLoader_LoadReportsRegistryBucket(t *testing.T) {
	ctx := context.Background()
	loader, _, _ := newTestLoader()

	result, err := loader.LoadFromString(ctx, `
- create_gizmo: spare
- create_widget:
    name: holder
    attrs:
      owner_id: !ref featured_gizmos/spare
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"featured_gizmos/spare", "widgets/holder"}, result.Created)

	for _, created := range result.Created {
		bucket, name, _ := strings.Cut(created, "/")
		rec, err := loader.Call(ctx, bucket, name)
		require.NoError(t, err)
		assert.NotNil(t, rec, created)
	}
}
