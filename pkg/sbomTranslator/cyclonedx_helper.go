package sbomTranslator

import (
	"strings"

	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/rs/zerolog/log"
)

const cycloneDxFormat = "CycloneDX"

// cycloneDxComponents converts a component list, flattening nested components
// with an implicit parent->child edge. Components for which asTool returns
// true become tool records instead.
func cycloneDxComponents(components *[]cdx.Component, parentRef string, asTool func(cdx.Component) bool, result *extraction) {
	if components == nil {
		return
	}

	for _, c := range *components {
		if asTool != nil && asTool(c) {
			log.Debug().Msgf("component %s is a tool record, excluding it from the graph", c.Name)
			result.Tools = append(result.Tools, cycloneDxComponentTool(c))
			continue
		}

		result.Components = append(result.Components, cycloneDxComponent(c))
		if parentRef != "" && c.BOMRef != "" {
			result.addEdge(parentRef, c.BOMRef)
		}
		cycloneDxComponents(c.Components, c.BOMRef, asTool, result)
	}
}

func cycloneDxComponent(c cdx.Component) *sbomModel.Component {
	component := &sbomModel.Component{
		ID:      sbomModel.NormalizeID(c.BOMRef),
		Name:    c.Name,
		Version: c.Version,
		Group:   c.Group,
	}

	switch {
	case c.Supplier != nil && c.Supplier.Name != "":
		component.Supplier = c.Supplier.Name
	case c.Publisher != "":
		component.Supplier = c.Publisher
	default:
		component.Supplier = c.Author
	}

	component.AddCPE(c.CPE)
	component.AddPURL(c.PackageURL)
	if c.SWID != nil {
		component.AddSWID(c.SWID.TagID)
	}

	if c.Hashes != nil {
		for _, h := range *c.Hashes {
			component.AddHash(string(h.Algorithm), h.Value)
		}
	}

	cycloneDxLicenses(component, c.Licenses)

	if c.Type != "" {
		component.SetProperty("type", string(c.Type))
	}
	if c.Scope != "" {
		component.SetProperty("scope", string(c.Scope))
	}
	if c.Properties != nil {
		for _, p := range *c.Properties {
			component.SetProperty(p.Name, p.Value)
		}
	}

	return component
}

// cycloneDxLicenses resolves the license choices of a component: license ids
// are plain licenses, named licenses become extracted licenses and
// expressions are split into their license ids.
func cycloneDxLicenses(component *sbomModel.Component, licenses *cdx.Licenses) {
	if licenses == nil {
		return
	}

	for _, choice := range *licenses {
		if choice.License != nil {
			license := choice.License
			switch {
			case license.ID != "":
				component.AddLicense(license.ID)
			case license.Name != "":
				extracted := sbomModel.ExtractedLicense{
					ID:             license.Name,
					Name:           license.Name,
					CrossReference: license.URL,
				}
				if license.Text != nil {
					extracted.Text = license.Text.Content
				}
				component.AddExtractedLicense(extracted)
			}
			continue
		}
		for _, id := range splitLicenseExpression(choice.Expression, " AND ", " OR ") {
			component.AddLicense(id)
		}
	}
}

func cycloneDxComponentTool(c cdx.Component) sbomModel.Tool {
	tool := sbomModel.Tool{Name: c.Name, Version: c.Version, Vendor: c.Publisher}
	if tool.Vendor == "" && c.Supplier != nil {
		tool.Vendor = c.Supplier.Name
	}
	if tool.Vendor == "" {
		tool.Vendor = c.Group
	}
	return tool
}

// cycloneDxTools reads both the legacy tool list and the component form of
// metadata tools.
func cycloneDxTools(tools *cdx.ToolsChoice) []sbomModel.Tool {
	if tools == nil {
		return nil
	}

	var result []sbomModel.Tool
	if tools.Tools != nil {
		for _, t := range *tools.Tools {
			result = append(result, sbomModel.Tool{Vendor: t.Vendor, Name: t.Name, Version: t.Version})
		}
	}
	if tools.Components != nil {
		for _, c := range *tools.Components {
			result = append(result, cycloneDxComponentTool(c))
		}
	}
	return result
}

// cycloneDxAuthor joins every metadata author and the author of the metadata
// component into one display string.
func cycloneDxAuthor(metadata *cdx.Metadata) string {
	if metadata == nil {
		return ""
	}

	var authors []string
	if metadata.Authors != nil {
		for _, author := range *metadata.Authors {
			name := author.Name
			if name == "" {
				name = author.Email
			}
			if name != "" {
				authors = append(authors, name)
			}
		}
	}
	if metadata.Component != nil && metadata.Component.Author != "" {
		authors = append(authors, metadata.Component.Author)
	}
	return strings.Join(authors, ", ")
}

func cycloneDxMetadata(metadata *cdx.Metadata, result *extraction) {
	if metadata == nil {
		result.warn(sbomModel.WarningPartialData, "document has no metadata")
		return
	}

	result.Document.Timestamp = metadata.Timestamp
	result.Document.Author = cycloneDxAuthor(metadata)
	result.Tools = append(result.Tools, cycloneDxTools(metadata.Tools)...)

	if metadata.Properties != nil {
		for _, p := range *metadata.Properties {
			result.Document.Metadata[p.Name] = p.Value
		}
	}
	if metadata.Supplier != nil && metadata.Supplier.Name != "" {
		result.Document.Metadata["supplier"] = metadata.Supplier.Name
	}

	if metadata.Component == nil {
		result.warn(sbomModel.WarningPartialData, "document metadata has no component")
		return
	}

	root := cycloneDxComponent(*metadata.Component)
	result.RootComponent = root
	result.Document.Name = metadata.Component.Name
	cycloneDxComponents(metadata.Component.Components, metadata.Component.BOMRef, nil, result)
}

func cycloneDxDependencies(dependencies []cdx.Dependency, result *extraction) {
	for _, dependency := range dependencies {
		if dependency.Dependencies == nil {
			continue
		}
		for _, child := range *dependency.Dependencies {
			result.addEdge(dependency.Ref, child)
		}
	}
}

func cycloneDxSerialNumber(serial string, result *extraction) {
	result.Document.SerialNumber = serial
	if serial != "" && !isValidSerialNumber(serial) {
		result.warn(sbomModel.WarningPartialData, "serial number %q is not a urn:uuid", serial)
	}
}
