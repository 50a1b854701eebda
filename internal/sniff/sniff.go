package sniff

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of a document, inferred from its extension.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Kind separates ordinary OSCAL content from Metaschema constraint sets.
type Kind string

const (
	KindPrimary       Kind = "primary"
	KindConstraintSet Kind = "constraint-set"
)

// ConstraintRoot is the root element (or top-level key) of a constraint set.
const ConstraintRoot = "metaschema-meta-constraints"

const schemaKey = "$schema"

// ErrUnsupportedFormat is returned for extensions other than xml, json, yaml and yml.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ParseError reports content that could not be parsed as its detected format.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s as %s: %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is a classified input file.
type Document struct {
	Path   string `json:"path"`
	Kind   Kind   `json:"kind"`
	Format Format `json:"format"`
	Root   string `json:"root"`
}

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Classify reads path and determines its format and document kind.
func Classify(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read document %s: %w", path, err)
	}

	var root string
	switch format {
	case FormatXML:
		root, err = xmlRoot(data)
	case FormatJSON:
		root, err = jsonRoot(data)
	case FormatYAML:
		root, err = yamlRoot(data)
	}
	if err != nil {
		return Document{}, &ParseError{Path: path, Format: format, Err: err}
	}

	return Document{Path: path, Kind: KindFor(root), Format: format, Root: root}, nil
}

// KindFor maps a root name to a Kind. Unrecognized names fall back to
// KindPrimary.
func KindFor(root string) Kind {
	if root == ConstraintRoot {
		return KindConstraintSet
	}
	return KindPrimary
}

func xmlRoot(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := ""
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok && root == "" {
			root = start.Name.Local
		}
	}
	if root == "" {
		return "", errors.New("no root element")
	}
	return root, nil
}

func jsonRoot(data []byte) (string, error) {
	if !json.Valid(data) {
		var discard any
		if err := json.Unmarshal(data, &discard); err != nil {
			return "", err
		}
		return "", errors.New("invalid json")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", errors.New("document root is not an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		key, _ := tok.(string)
		if key != schemaKey {
			return key, nil
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return "", err
		}
	}
	return "", errors.New("no top-level key")
}

func yamlRoot(data []byte) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return "", errors.New("empty document")
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return "", errors.New("document root is not a mapping")
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		if key != schemaKey {
			return key, nil
		}
	}
	return "", errors.New("no top-level key")
}
