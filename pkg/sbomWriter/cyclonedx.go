package sbomWriter

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	cdx "github.com/CycloneDX/cyclonedx-go"
)

var spdxHashAlgorithms = map[string]cdx.HashAlgorithm{
	"SHA1":   cdx.HashAlgoSHA1,
	"SHA256": cdx.HashAlgoSHA256,
	"SHA384": cdx.HashAlgoSHA384,
	"SHA512": cdx.HashAlgoSHA512,
}

// encodeCycloneDx re-exports a translated SBOM as a CycloneDX JSON document,
// the root becoming the metadata component.
func encodeCycloneDx(s *sbomModel.SBOM) ([]byte, error) {
	bom := toCycloneDx(s)

	var buffer bytes.Buffer
	if err := cdx.NewBOMEncoder(&buffer, cdx.BOMFileFormatJSON).SetPretty(true).Encode(bom); err != nil {
		return nil, fmt.Errorf("failed to encode cyclonedx bom: %w", err)
	}
	return buffer.Bytes(), nil
}

func toCycloneDx(s *sbomModel.SBOM) *cdx.BOM {
	bom := cdx.NewBOM()
	if strings.HasPrefix(s.SerialNumber, "urn:uuid:") {
		bom.SerialNumber = s.SerialNumber
	}

	bom.Metadata = &cdx.Metadata{Timestamp: s.Timestamp}
	if s.Author != "" {
		bom.Metadata.Authors = &[]cdx.OrganizationalContact{{Name: s.Author}}
	}
	if len(s.Tools) > 0 {
		tools := make([]cdx.Component, 0, len(s.Tools))
		for _, tool := range s.Tools {
			tools = append(tools, cdx.Component{
				Type:      cdx.ComponentTypeApplication,
				Publisher: tool.Vendor,
				Name:      tool.Name,
				Version:   tool.Version,
			})
		}
		bom.Metadata.Tools = &cdx.ToolsChoice{Components: &tools}
	}

	components := []cdx.Component{}
	var dependencies []cdx.Dependency
	for _, c := range s.OrderedComponents() {
		component := toCycloneDxComponent(c)
		if c.ID == s.RootComponentID {
			bom.Metadata.Component = &component
		} else {
			components = append(components, component)
		}

		if children := s.Dependencies[c.ID]; len(children) > 0 {
			dependsOn := slices.Clone(children)
			dependencies = append(dependencies, cdx.Dependency{Ref: c.ID, Dependencies: &dependsOn})
		}
	}
	bom.Components = &components
	if len(dependencies) > 0 {
		bom.Dependencies = &dependencies
	}

	return bom
}

func toCycloneDxComponent(c *sbomModel.Component) cdx.Component {
	component := cdx.Component{
		BOMRef:  c.ID,
		Type:    cdx.ComponentTypeLibrary,
		Name:    c.Name,
		Version: c.Version,
		Group:   c.Group,
	}
	if componentType := c.Properties["type"]; componentType != "" {
		component.Type = cdx.ComponentType(componentType)
	}
	if scope := c.Properties["scope"]; scope != "" {
		component.Scope = cdx.Scope(scope)
	}
	if c.Supplier != "" {
		component.Supplier = &cdx.OrganizationalEntity{Name: c.Supplier}
	}
	if len(c.PURLs) > 0 {
		component.PackageURL = c.PURLs[0]
	}
	if len(c.CPEs) > 0 {
		component.CPE = c.CPEs[0]
	}
	if len(c.SWIDs) > 0 {
		component.SWID = &cdx.SWID{TagID: c.SWIDs[0], Name: c.Name, Version: c.Version}
	}

	if len(c.Hashes) > 0 {
		hashes := make([]cdx.Hash, 0, len(c.Hashes))
		for _, h := range c.Hashes {
			algorithm, ok := spdxHashAlgorithms[strings.ToUpper(h.Algorithm)]
			if !ok {
				algorithm = cdx.HashAlgorithm(h.Algorithm)
			}
			hashes = append(hashes, cdx.Hash{Algorithm: algorithm, Value: h.Value})
		}
		component.Hashes = &hashes
	}

	var licenses cdx.Licenses
	for _, id := range c.Licenses {
		licenses = append(licenses, cdx.LicenseChoice{License: &cdx.License{ID: id}})
	}
	for _, key := range slices.Sorted(maps.Keys(c.ExtractedLicenses)) {
		extracted := c.ExtractedLicenses[key]
		license := &cdx.License{Name: extracted.Name, URL: extracted.CrossReference}
		if license.Name == "" {
			license.Name = extracted.ID
		}
		if extracted.Text != "" {
			license.Text = &cdx.AttachedText{Content: extracted.Text}
		}
		licenses = append(licenses, cdx.LicenseChoice{License: license})
	}
	if len(licenses) > 0 {
		component.Licenses = &licenses
	}

	var properties []cdx.Property
	for _, key := range slices.Sorted(maps.Keys(c.Properties)) {
		if key == "type" || key == "scope" {
			continue
		}
		properties = append(properties, cdx.Property{Name: key, Value: c.Properties[key]})
	}
	if len(properties) > 0 {
		component.Properties = &properties
	}

	return component
}
