package merge

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const srcJSON = `{
	"a": 3,
	"b": {"x": {}, "y": {"test": "thing"}},
	"c": {}
}`

const dstJSON = `{
	"b": {"y": {"test": "something"}},
	"c": {"foo": "bar"}
}`

func decodeJSON(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func lookup(t *testing.T, tree interface{}, keys ...string) interface{} {
	t.Helper()
	node := tree
	for _, k := range keys {
		m, ok := asMapping(node)
		require.True(t, ok, "node before %s is not a mapping", k)
		node, ok = m.get(k)
		require.True(t, ok, "key %s is missing", k)
	}
	return node
}

func TestTreesOverwrite(t *testing.T) {
	src := decodeJSON(t, srcJSON)
	dst := decodeJSON(t, dstJSON)
	require.NoError(t, Trees(src, dst, true))

	assert.Equal(t, "thing", lookup(t, dst, "b", "y", "test"))
	assert.EqualValues(t, 3, lookup(t, dst, "a"))
	assert.Equal(t, map[string]interface{}{}, lookup(t, dst, "b", "x"))
	assert.Equal(t, "bar", lookup(t, dst, "c", "foo"))
}

func TestTreesRetain(t *testing.T) {
	src := decodeJSON(t, srcJSON)
	dst := decodeJSON(t, dstJSON)
	require.NoError(t, Trees(src, dst, false))

	assert.Equal(t, "something", lookup(t, dst, "b", "y", "test"))
	assert.EqualValues(t, 3, lookup(t, dst, "a"))
	assert.Equal(t, map[string]interface{}{}, lookup(t, dst, "b", "x"))
	assert.Equal(t, "bar", lookup(t, dst, "c", "foo"))
}

func TestTreesReplacesSequencesWhole(t *testing.T) {
	src := decodeJSON(t, `{"list": [1]}`)
	dst := decodeJSON(t, `{"list": [1, 2, 3]}`)
	require.NoError(t, Trees(src, dst, true))
	assert.Equal(t, []interface{}{float64(1)}, dst["list"])
}

func TestTreesIdempotent(t *testing.T) {
	src := decodeJSON(t, srcJSON)
	once := decodeJSON(t, dstJSON)
	require.NoError(t, Trees(src, once, false))
	twice := decodeJSON(t, dstJSON)
	require.NoError(t, Trees(src, twice, false))
	require.NoError(t, Trees(src, twice, false))
	assert.Equal(t, once, twice)
}

func TestTreesStructuralMismatch(t *testing.T) {
	src := decodeJSON(t, `{"b": {"y": {"test": "thing"}}}`)
	dst := decodeJSON(t, `{"b": {"y": 5}}`)
	err := Trees(src, dst, true)

	var mismatch *StructuralMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []string{"b", "y"}, mismatch.Path)

	err = Trees([]interface{}{1}, dst, true)
	require.ErrorAs(t, err, &mismatch)
	assert.Empty(t, mismatch.Path)
}

func TestFilesYAML(t *testing.T) {
	src := []byte("a: 3\nb:\n  x: {}\n  y:\n    test: thing\nc: {}\n")
	dst := []byte("b:\n  y:\n    test: something\nc:\n  foo: bar\n")

	out, err := Files(src, dst, false, YAML)
	require.NoError(t, err)
	var merged map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &merged))
	assert.Equal(t, "something", lookup(t, merged, "b", "y", "test"))
	assert.Equal(t, 3, lookup(t, merged, "a"))
	assert.Equal(t, "bar", lookup(t, merged, "c", "foo"))

	out, err = Files(src, dst, true, YAML)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(out, &merged))
	assert.Equal(t, "thing", lookup(t, merged, "b", "y", "test"))
}

func TestFilesTOML(t *testing.T) {
	src := []byte(`
a = 3

[b]
[b.x]

[b.y]
test = "thing"

[c]
`)
	dst := []byte(`
[b]
[b.y]
test = "something"

[c]
foo = "bar"
`)

	out, err := Files(src, dst, false, TOML)
	require.NoError(t, err)
	merged := make(map[string]interface{})
	_, err = toml.Decode(string(out), &merged)
	require.NoError(t, err)
	assert.Equal(t, "something", lookup(t, merged, "b", "y", "test"))
	assert.Equal(t, int64(3), lookup(t, merged, "a"))
	assert.Equal(t, map[string]interface{}{}, lookup(t, merged, "b", "x"))
	assert.Equal(t, "bar", lookup(t, merged, "c", "foo"))

	out, err = Files(src, dst, true, TOML)
	require.NoError(t, err)
	merged = make(map[string]interface{})
	_, err = toml.Decode(string(out), &merged)
	require.NoError(t, err)
	assert.Equal(t, "thing", lookup(t, merged, "b", "y", "test"))
}

func TestFilesJSONEmptyDestination(t *testing.T) {
	out, err := Files([]byte(`{"a": {"b": 1}}`), nil, false, JSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": {"b": 1}}`, string(out))
}

func TestDetectFileType(t *testing.T) {
	for name, want := range map[string]FileType{
		"config/sodium.json": JSON,
		"options.TOML":       TOML,
		"a.yml":              YAML,
		"b.yaml":             YAML,
	} {
		got, err := DetectFileType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := DetectFileType("options.txt")
	assert.ErrorIs(t, err, ErrUnmergeable)
}
