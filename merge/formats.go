package merge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileType is a serialization format that can be merged
type FileType string

const (
	JSON FileType = "json"
	YAML FileType = "yaml"
	TOML FileType = "toml"
)

// ErrUnmergeable is returned by DetectFileType for files that aren't in a mergeable format
var ErrUnmergeable = errors.New("unmergeable file type")

// DetectFileType picks a format from a file name's extension
func DetectFileType(name string) (FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnmergeable, name)
}

// Files merges the src document into the dst document, both in the given format, and returns the
// re-encoded result. An empty dst is treated as an empty mapping.
func Files(src []byte, dst []byte, overwrite bool, ft FileType) ([]byte, error) {
	srcTree, err := decode(src, ft)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source %s document: %w", ft, err)
	}
	dstTree, err := decode(dst, ft)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination %s document: %w", ft, err)
	}
	if err := Trees(srcTree, dstTree, overwrite); err != nil {
		return nil, err
	}
	return encode(dstTree, ft)
}

func decode(data []byte, ft FileType) (interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, nil
	}
	switch ft {
	case JSON:
		var tree interface{}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, err
		}
		return tree, nil
	case YAML:
		var tree interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return tree, nil
	case TOML:
		tree := make(map[string]interface{})
		if _, err := toml.Decode(string(data), &tree); err != nil {
			return nil, err
		}
		return tree, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnmergeable, ft)
}

func encode(tree interface{}, ft FileType) ([]byte, error) {
	switch ft {
	case JSON:
		out, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case YAML:
		return yaml.Marshal(tree)
	case TOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.Indent = ""
		if err := enc.Encode(tree); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnmergeable, ft)
}
