package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// schemaDecoders maps a file extension (without dot, lowercased) to the
// function that turns its bytes into a JTD schema document's canonical
// JSON form. Grounded on the teacher's MediaTypes/setupMediaTypes pattern
// (compiler.go), keyed here by file extension rather than media type
// since the CLI's only input is a file path.
var schemaDecoders = map[string]func([]byte) ([]byte, error){
	"json": func(data []byte) ([]byte, error) { return data, nil },
	"yaml": yamlToJSON,
	"yml":  yamlToJSON,
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return json.Marshal(v)
}

// loadSchema normalizes data, the contents of the file at path, to JSON
// bytes based on path's extension. An unrecognized extension is treated as JSON, matching the
// teacher's default media type.
func loadSchema(path string, data []byte) ([]byte, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	decode, ok := schemaDecoders[ext]
	if !ok {
		decode = schemaDecoders["json"]
	}
	return decode(data)
}
