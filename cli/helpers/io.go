package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/pretty"

	"github.com/plasturgie/plasturgie/pkg/logger"
)

// OutputWriter handles different output formats
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
	color  bool
}

// NewOutputWriter creates a new output writer. Formats other than YAML are written as JSON.
func NewOutputWriter(writer io.Writer, format OutputFormat) *OutputWriter {
	if format != OutputFormatYAML {
		format = OutputFormatJSON
	}
	return &OutputWriter{
		writer: writer,
		format: format,
	}
}

// WithColor highlights JSON output for terminals.
func (ow *OutputWriter) WithColor(color bool) *OutputWriter {
	ow.color = color
	return ow
}

// WriteData writes data in the specified format
func (ow *OutputWriter) WriteData(data any) error {
	switch ow.format {
	case OutputFormatYAML:
		return ow.writeYAML(data)
	default:
		return ow.writeJSON(data)
	}
}

func (ow *OutputWriter) writeJSON(data any) error {
	if !ow.color {
		encoder := json.NewEncoder(ow.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = ow.writer.Write(pretty.Color(pretty.Pretty(raw), nil))
	return err
}

// writeYAML goes through JSON first so that json tags and marshalers apply.
func (ow *OutputWriter) writeYAML(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	out, err := yaml.JSONToYAML(raw)
	if err != nil {
		return fmt.Errorf("failed to convert output to YAML: %w", err)
	}
	_, err = ow.writer.Write(out)
	return err
}

// ReadInput reads a payload from a file, or from stdin for "-".
func ReadInput(ctx context.Context, source string, stdin io.Reader) ([]byte, error) {
	log := logger.FromContext(ctx)
	switch source {
	case "":
		return nil, NewCliError("INVALID_PATH", "File path cannot be empty")
	case "-":
		log.Debug("reading from stdin")
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, NewCliError("STDIN_READ_ERROR", "Failed to read standard input", err.Error())
		}
		return data, nil
	default:
		log.Debug("reading from file", "file", source)
		return ReadFile(source)
	}
}

// ReadFile reads a file with enhanced error handling
func ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, NewCliError("INVALID_PATH", "File path cannot be empty")
	}
	if !FileExists(path) {
		return nil, NewCliError("FILE_NOT_FOUND", fmt.Sprintf("File not found: %s", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewCliError("FILE_READ_ERROR", fmt.Sprintf("Failed to read file: %s", path), err.Error())
	}
	return data, nil
}

// DecodePayload decodes a JSON or YAML document into v. YAML is converted to
// JSON first so that json tags and custom unmarshalers apply.
func DecodePayload(data []byte, v any) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return NewCliError("EMPTY_PAYLOAD", "Payload is empty")
	}
	raw := []byte(trimmed)
	if !json.Valid(raw) {
		converted, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return NewCliError("PAYLOAD_PARSE_ERROR", "Payload is neither JSON nor YAML", err.Error())
		}
		raw = converted
	}
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return NewCliError("PAYLOAD_PARSE_ERROR", "Payload does not match the expected fields", err.Error())
	}
	return nil
}

// FileExists checks if a file exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
