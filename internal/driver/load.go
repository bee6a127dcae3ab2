package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"weave/internal/doc"
)

// InputFormat is the encoding of a document file.
type InputFormat string

const (
	FormatAuto    InputFormat = ""
	FormatJSON    InputFormat = "json"
	FormatYAML    InputFormat = "yaml"
	FormatMsgpack InputFormat = "msgpack"
)

// ErrUnknownFormat is returned when a file extension maps to no format.
var ErrUnknownFormat = errors.New("unknown document format")

// ParseInputFormat converts a flag value to InputFormat.
func ParseInputFormat(s string) (InputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q (expected: json|yaml|msgpack)", ErrUnknownFormat, s)
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (InputFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ReadSource reads path, or stdin for "-".
func ReadSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// Decode parses data in format and converts the result to a document.
func Decode(data []byte, format InputFormat) (doc.Node, error) {
	var v any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		if dec.More() {
			return nil, errors.New("json: trailing data after document")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return doc.Decode(v)
}

// ResolveFormat returns format, or the format implied by path's extension
// when format is FormatAuto.
func ResolveFormat(path string, format InputFormat) (InputFormat, error) {
	if format != FormatAuto {
		return format, nil
	}
	if path == "-" {
		return FormatAuto, errors.New("reading stdin requires an explicit input format")
	}
	return DetectFormat(path)
}

// LoadFile reads and decodes one document. format overrides extension
// detection; stdin ("-") requires it.
func LoadFile(path string, format InputFormat, stdin io.Reader) (doc.Node, []byte, error) {
	format, err := ResolveFormat(path, format)
	if err != nil {
		return nil, nil, err
	}
	data, err := ReadSource(path, stdin)
	if err != nil {
		return nil, nil, err
	}
	n, err := Decode(data, format)
	if err != nil {
		return nil, data, err
	}
	return n, data, nil
}
