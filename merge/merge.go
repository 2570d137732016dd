// Package merge implements a recursive merge of tree shaped configuration documents. Every supported
// format is decoded into the same untyped tree of mappings and leaves before being merged.
package merge

import (
	"fmt"
	"sort"
	"strings"
)

// StructuralMismatchError is returned when a merge reaches a node that isn't a mapping in one of the trees
type StructuralMismatchError struct {
	// Path is the list of keys leading to the offending node, empty for the document root
	Path []string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("cannot merge non-mapping nodes at /%s", strings.Join(e.Path, "/"))
}

// mapping abstracts over the map types produced by the format decoders
type mapping interface {
	keys() []interface{}
	get(key interface{}) (interface{}, bool)
	set(key interface{}, value interface{})
	// empty creates a new mapping of the same kind, used for missing children
	empty() interface{}
}

type stringMapping map[string]interface{}

func (m stringMapping) keys() []interface{} {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]interface{}, len(names))
	for i, k := range names {
		out[i] = k
	}
	return out
}

func (m stringMapping) get(key interface{}) (interface{}, bool) {
	v, ok := m[keyString(key)]
	return v, ok
}

func (m stringMapping) set(key interface{}, value interface{}) {
	m[keyString(key)] = value
}

func (m stringMapping) empty() interface{} {
	return map[string]interface{}{}
}

type anyMapping map[interface{}]interface{}

func (m anyMapping) keys() []interface{} {
	out := make([]interface{}, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return keyString(out[i]) < keyString(out[j])
	})
	return out
}

func (m anyMapping) get(key interface{}) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

func (m anyMapping) set(key interface{}, value interface{}) {
	m[key] = value
}

func (m anyMapping) empty() interface{} {
	return map[interface{}]interface{}{}
}

func keyString(key interface{}) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}

func asMapping(node interface{}) (mapping, bool) {
	switch m := node.(type) {
	case map[string]interface{}:
		return stringMapping(m), true
	case map[interface{}]interface{}:
		return anyMapping(m), true
	}
	return nil, false
}

// Trees merges src into dst in place. For every key of src, mappings are merged recursively (an empty
// mapping is created in dst if the key is missing) and any other value is copied into dst when
// overwrite is set or dst doesn't have the key. Keys that only exist in dst are left untouched.
func Trees(src interface{}, dst interface{}, overwrite bool) error {
	return mergeAt(src, dst, overwrite, nil)
}

func mergeAt(src interface{}, dst interface{}, overwrite bool, path []string) error {
	srcMap, srcOk := asMapping(src)
	dstMap, dstOk := asMapping(dst)
	if !srcOk || !dstOk {
		return &StructuralMismatchError{Path: path}
	}

	for _, k := range srcMap.keys() {
		v, _ := srcMap.get(k)
		if _, isMapping := asMapping(v); isMapping {
			child, ok := dstMap.get(k)
			if !ok {
				child = dstMap.empty()
				dstMap.set(k, child)
			}
			if err := mergeAt(v, child, overwrite, append(path[:len(path):len(path)], keyString(k))); err != nil {
				return err
			}
			continue
		}
		if _, exists := dstMap.get(k); overwrite || !exists {
			dstMap.set(k, v)
		}
	}
	return nil
}
