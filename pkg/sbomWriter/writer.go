package sbomWriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Writer struct {
	format   OutputFormat
	compress bool
}

// NewWriter returns a writer for the given output format. With compress set
// the encoded report is gzipped and base64 encoded.
func NewWriter(format string, compress bool) (*Writer, error) {
	outputFormat := OutputFormat(strings.ToLower(strings.TrimSpace(format)))
	switch outputFormat {
	case FormatJSON, FormatYAML, FormatCycloneDX, FormatTree:
	case "":
		outputFormat = FormatJSON
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: json, yaml, cyclonedx, tree)", format)
	}
	return &Writer{format: outputFormat, compress: compress}, nil
}

func (w *Writer) Encode(report *Report) ([]byte, error) {
	data, err := w.encode(report)
	if err != nil {
		return nil, err
	}
	if !w.compress {
		return data, nil
	}

	compressed, err := compressReport(data)
	if err != nil {
		return nil, err
	}
	return []byte(compressed), nil
}

func (w *Writer) encode(report *Report) ([]byte, error) {
	switch w.format {
	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report yaml: %w", err)
		}
		return data, nil
	case FormatCycloneDX:
		return encodeCycloneDx(report.SBOM)
	case FormatTree:
		return marshalJSON(report.Tree)
	default:
		return marshalJSON(report)
	}
}

func (w *Writer) Write(out io.Writer, report *Report) error {
	data, err := w.Encode(report)
	if err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	_, err = out.Write(data)
	return err
}

// WriteFile writes the report to outputPath, or to stdout if outputPath is "-".
func (w *Writer) WriteFile(outputPath string, report *Report) error {
	if outputPath == "-" || outputPath == "" {
		return w.Write(os.Stdout, report)
	}

	var buffer bytes.Buffer
	if err := w.Write(&buffer, report); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	log.Debug().Msgf("wrote %s report to %s", w.format, outputPath)
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report json: %w", err)
	}
	return data, nil
}
