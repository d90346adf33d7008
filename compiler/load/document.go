package load

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// document is one input file decoded twice: as a yaml.Node tree, which
// keeps mapping order for descriptor decoding, and as a plain JSON value
// for schema validation.
type document struct {
	path  string
	raw   []byte
	root  *yaml.Node
	value any
}

// isJSON reports whether the path names a JSON document. Anything else is
// read as YAML.
func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func readDocument(path string) (*document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Message: "cannot read file", Cause: err}
	}
	raw = trimBOM(raw)
	doc := &document{path: path, raw: raw}
	if isJSON(path) {
		// goccy rejects YAML-only syntax that yaml.v3 would accept.
		if err := json.Unmarshal(raw, &doc.value); err != nil {
			return nil, &DocumentError{Path: path, Message: "invalid JSON", Cause: err}
		}
	}
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &DocumentError{Path: path, Message: "cannot parse document", Cause: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &DocumentError{Path: path, Message: "empty document"}
	}
	doc.root = root.Content[0]
	value, err := nodeValue(doc.root)
	if err != nil {
		return nil, &DocumentError{Path: path, Line: lineOf(err), Message: "cannot decode document", Cause: err}
	}
	if doc.value == nil {
		doc.value = value
	}
	return doc, nil
}

// jsonBytes returns the document as JSON text.
func (d *document) jsonBytes() ([]byte, error) {
	if isJSON(d.path) {
		return d.raw, nil
	}
	return json.Marshal(d.value)
}

// DuplicateKeyError reports a mapping key declared twice.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	Line      int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at line %d (first at line %d)", e.Key, e.Line, e.FirstLine)
}

func lineOf(err error) int {
	if e, ok := err.(*DuplicateKeyError); ok {
		return e.Line
	}
	return 0
}

// nodeValue converts a yaml.Node into JSON-compatible Go values. Numbers
// become float64 as they would through encoding/json. Duplicate keys are
// rejected since they silently drop catalogue entries.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if line, dup := first[k.Value]; dup {
				return nil, &DuplicateKeyError{Key: k.Value, FirstLine: line, Line: k.Line}
			}
			first[k.Value] = k.Line
			val, err := nodeValue(v)
			if err != nil {
				return nil, err
			}
			m[k.Value] = val
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			return strings.EqualFold(n.Value, "true"), nil
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				if i, ierr := strconv.ParseInt(n.Value, 0, 64); ierr == nil {
					return float64(i), nil
				}
				return n.Value, nil
			}
			return f, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, nil
	}
}

// trimBOM drops a UTF-8 byte order mark some editors prepend.
func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
