package sbomTranslator

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/rs/zerolog/log"
)

const cycloneDxNamespacePrefix = "http://cyclonedx.org/schema/bom/"

// extractCycloneDxXml reads a CycloneDX XML document. Application components
// are tool records in this grammar and never enter the graph.
func extractCycloneDxXml(data []byte) (*extraction, error) {
	bom := new(cdx.BOM)
	if err := cdx.NewBOMDecoder(bytes.NewReader(data), cdx.BOMFileFormatXML).Decode(bom); err != nil {
		return nil, malformed("invalid cyclonedx xml: %v", err)
	}

	result := &extraction{
		Document: documentInfo{
			Format:          sbomModel.FormatCycloneDX,
			SpecVersion:     cycloneDxXmlSpecVersion(bom.XMLNS),
			DocumentVersion: strconv.Itoa(bom.Version),
			Metadata:        map[string]string{},
		},
	}
	if result.Document.SpecVersion == "" {
		result.warn(sbomModel.WarningPartialData, "unknown cyclonedx namespace %q", bom.XMLNS)
	}
	cycloneDxSerialNumber(bom.SerialNumber, result)
	cycloneDxMetadata(bom.Metadata, result)

	if bom.Components != nil {
		cycloneDxComponents(bom.Components, "", isApplicationComponent, result)
	} else {
		result.warn(sbomModel.WarningPartialData, "document has no components section")
	}

	if bom.Dependencies != nil {
		cycloneDxDependencies(*bom.Dependencies, result)
	} else {
		result.warn(sbomModel.WarningPartialData, "document has no dependencies section")
	}

	log.Debug().Msgf("cyclonedx xml document %s: %d components, %d tools, %d dependencies",
		result.Document.SerialNumber, len(result.Components), len(result.Tools), len(result.Edges))

	return result, nil
}

func isApplicationComponent(c cdx.Component) bool {
	return c.Type == cdx.ComponentTypeApplication
}

// cycloneDxXmlSpecVersion reads the schema version off the bom namespace,
// "http://cyclonedx.org/schema/bom/1.4" -> "1.4".
func cycloneDxXmlSpecVersion(namespace string) string {
	if !strings.HasPrefix(namespace, cycloneDxNamespacePrefix) {
		return ""
	}
	return strings.TrimPrefix(namespace, cycloneDxNamespacePrefix)
}
