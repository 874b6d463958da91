package sbomTranslator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anchore/syft/syft/format"
	"github.com/rs/zerolog/log"
)

type SbomTranslator interface {
	// Translate reads the document at path and translates it.
	Translate(path string) (*Result, error)
	// TranslateContents translates an in-memory document. name is only used to
	// pick the extractor by extension and to label errors.
	TranslateContents(name string, data []byte) (*Result, error)
}

type Option func(*sbomTranslator)

// WithContentSniffing lets documents with an unknown extension be identified
// by their content instead of failing with ErrUnsupportedFormat.
func WithContentSniffing(enabled bool) Option {
	return func(t *sbomTranslator) {
		t.sniffContent = enabled
	}
}

type extractor func(data []byte) (*extraction, error)

var extractorsByExtension = map[string]extractor{
	".spdx": extractSpdx,
	".json": extractCycloneDxJson,
	".xml":  extractCycloneDxXml,
}

var extractorsByFormatID = map[string]extractor{
	"spdx-tag-value": extractSpdx,
	"cyclonedx-json": extractCycloneDxJson,
	"cyclonedx-xml":  extractCycloneDxXml,
}

type sbomTranslator struct {
	sniffContent bool
}

func NewSbomTranslator(options ...Option) SbomTranslator {
	t := &sbomTranslator{}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *sbomTranslator) Translate(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return t.TranslateContents(path, data)
}

func (t *sbomTranslator) TranslateContents(name string, data []byte) (*Result, error) {
	extract, err := t.selectExtractor(name, data)
	if err != nil {
		return nil, &TranslationError{Name: name, Err: err}
	}

	extracted, err := extract(data)
	if err != nil {
		log.Debug().Err(err).Msgf("could not extract %s", name)
		return nil, &TranslationError{Name: name, Err: err}
	}

	s, warnings := buildSbom(extracted)
	for _, warning := range warnings {
		log.Debug().Msgf("%s: %s", name, warning)
	}
	log.Debug().Msgf("translated %s: %d components, root %s, %d warnings", name,
		len(s.Components), s.RootComponentID, len(warnings))

	return &Result{SBOM: s, Warnings: warnings}, nil
}

func (t *sbomTranslator) selectExtractor(name string, data []byte) (extractor, error) {
	extension := strings.ToLower(filepath.Ext(name))
	if extract, ok := extractorsByExtension[extension]; ok {
		return extract, nil
	}

	if !t.sniffContent {
		return nil, unsupported("extension %q is not one of .spdx, .json, .xml", extension)
	}

	id, version := format.Identify(bytes.NewReader(data))
	if extract, ok := extractorsByFormatID[string(id)]; ok {
		log.Debug().Msgf("identified %s as %s %s", name, id, version)
		return extract, nil
	}
	return nil, unsupported("could not identify the format of %s", name)
}
