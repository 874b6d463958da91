package sbomTranslator

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/rs/zerolog/log"
)

// cycloneDxEnvelope keeps every optional section raw so that one malformed
// section does not fail the whole document.
type cycloneDxEnvelope struct {
	BOMFormat    string          `json:"bomFormat"`
	SpecVersion  string          `json:"specVersion"`
	Version      json.RawMessage `json:"version"`
	SerialNumber string          `json:"serialNumber"`
	Metadata     json.RawMessage `json:"metadata"`
	Components   json.RawMessage `json:"components"`
	Dependencies json.RawMessage `json:"dependencies"`
}

// extractCycloneDxJson reads a CycloneDX JSON document.
func extractCycloneDxJson(data []byte) (*extraction, error) {
	var envelope cycloneDxEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, malformed("invalid cyclonedx json: %v", err)
	}
	if !strings.EqualFold(envelope.BOMFormat, cycloneDxFormat) {
		return nil, malformed("bomFormat is %q, expected %s", envelope.BOMFormat, cycloneDxFormat)
	}
	if envelope.SpecVersion == "" {
		return nil, malformed("cyclonedx json has no specVersion")
	}

	result := &extraction{
		Document: documentInfo{
			Format:          sbomModel.FormatCycloneDX,
			SpecVersion:     envelope.SpecVersion,
			DocumentVersion: strings.Trim(string(envelope.Version), `"`),
			Metadata:        map[string]string{},
		},
	}
	cycloneDxSerialNumber(envelope.SerialNumber, result)

	var metadata *cdx.Metadata
	if isPresent(envelope.Metadata) {
		metadata = new(cdx.Metadata)
		if err := json.Unmarshal(envelope.Metadata, metadata); err != nil {
			log.Debug().Err(err).Msg("ignoring malformed cyclonedx metadata")
			result.warn(sbomModel.WarningPartialData, "metadata section is malformed: %v", err)
			metadata = nil
		}
	}
	if metadata != nil || !isPresent(envelope.Metadata) {
		cycloneDxMetadata(metadata, result)
	}

	if isPresent(envelope.Components) {
		var components []cdx.Component
		if err := json.Unmarshal(envelope.Components, &components); err != nil {
			return nil, malformed("components section is malformed: %v", err)
		}
		first := len(result.Components)
		cycloneDxComponents(&components, "", nil, result)
		if result.RootComponent == nil && len(result.Components) > first {
			result.RootComponent = result.Components[first]
			result.Document.Name = result.RootComponent.Name
		}
	} else {
		result.warn(sbomModel.WarningPartialData, "document has no components section")
	}

	if isPresent(envelope.Dependencies) {
		var dependencies []cdx.Dependency
		if err := json.Unmarshal(envelope.Dependencies, &dependencies); err != nil {
			log.Debug().Err(err).Msg("ignoring malformed cyclonedx dependencies")
			result.warn(sbomModel.WarningPartialData, "dependencies section is malformed, no edges declared: %v", err)
		} else {
			cycloneDxDependencies(dependencies, result)
		}
	} else {
		result.warn(sbomModel.WarningPartialData, "document has no dependencies section")
	}

	log.Debug().Msgf("cyclonedx json document %s: %d components, %d dependencies", result.Document.SerialNumber,
		len(result.Components), len(result.Edges))

	return result, nil
}

func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
