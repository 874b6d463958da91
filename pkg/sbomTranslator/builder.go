package sbomTranslator

import (
	"fmt"

	"github.com/Checkmarx/sbom-translator/pkg/dependencyGraph"
	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	"github.com/rs/zerolog/log"
)

const (
	defaultRootID        = "document"
	defaultComponentName = "component"
)

// buildSbom assembles the canonical SBOM from an extraction and grows its
// dependency tree. It never fails: every missing piece is defaulted and
// reported as a warning.
func buildSbom(e *extraction) (*sbomModel.SBOM, []sbomModel.Warning) {
	s := sbomModel.NewSBOM(e.Document.Format)
	s.SpecVersion = e.Document.SpecVersion
	s.DocumentVersion = e.Document.DocumentVersion
	s.Name = e.Document.Name
	s.Author = e.Document.Author
	s.SerialNumber = e.Document.SerialNumber
	s.Timestamp = e.Document.Timestamp
	for key, value := range e.Document.Metadata {
		s.Metadata[key] = value
	}
	s.Tools = append(s.Tools, e.Tools...)

	warnings := append([]sbomModel.Warning{}, e.Warnings...)

	if e.RootComponent != nil {
		registerComponent(s, e.RootComponent)
		s.RootComponentID = e.RootComponent.ID
	}

	for _, component := range e.Components {
		if component == e.RootComponent {
			continue
		}
		if !registerComponent(s, component) {
			log.Debug().Msgf("dropping duplicate component %s", component.ID)
			warnings = append(warnings, sbomModel.NewWarning(sbomModel.WarningPartialData,
				"duplicate component id %s, keeping the first declaration", component.ID))
		}
	}

	if s.RootComponentID == "" && e.RootID != "" {
		rootID := sbomModel.NormalizeID(e.RootID)
		if s.Component(rootID) != nil {
			s.RootComponentID = rootID
		} else {
			warnings = append(warnings, sbomModel.NewWarning(sbomModel.WarningReference,
				"declared root %s is not a component of the document", e.RootID))
		}
	}

	if s.RootComponentID == "" {
		root := synthesizeRoot(e.Document)
		if s.Component(root.ID) != nil {
			root.ID = ""
		}
		registerComponent(s, root)
		s.RootComponentID = root.ID
		log.Debug().Msgf("synthesized root component %s", root.ID)
	}

	warnings = append(warnings, dependencyGraph.Build(s, e.Edges)...)

	return s, warnings
}

// registerComponent normalizes the component id, synthesizing one from the
// name when missing, and adds the component to s. Declared ids that are
// already taken are rejected.
func registerComponent(s *sbomModel.SBOM, component *sbomModel.Component) bool {
	enrichComponent(component)

	component.ID = sbomModel.NormalizeID(component.ID)
	if component.ID != "" {
		return s.AddComponent(component)
	}

	component.ID = synthesizeID(s, component)
	return s.AddComponent(component)
}

// synthesizeID derives an id from the name, then name and version, then a
// counter, whichever is free first.
func synthesizeID(s *sbomModel.SBOM, component *sbomModel.Component) string {
	base := sbomModel.NormalizeID(component.Name)
	if base == "" {
		base = defaultComponentName
	}

	candidates := []string{base}
	if version := sbomModel.NormalizeID(component.Version); version != "" {
		candidates = append(candidates, base+"-"+version)
	}
	for _, candidate := range candidates {
		if s.Component(candidate) == nil {
			return candidate
		}
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if s.Component(candidate) == nil {
			return candidate
		}
	}
}

func synthesizeRoot(document documentInfo) *sbomModel.Component {
	root := &sbomModel.Component{
		ID:   sbomModel.NormalizeID(document.DocumentID),
		Name: document.Name,
	}
	if root.ID == "" {
		root.ID = sbomModel.NormalizeID(document.Name)
	}
	if root.ID == "" {
		root.ID = defaultRootID
	}
	if root.Name == "" {
		root.Name = root.ID
	}
	return root
}

// enrichComponent fills the group and package manager from the first PURL.
func enrichComponent(component *sbomModel.Component) {
	if len(component.PURLs) == 0 {
		return
	}
	if component.Group == "" {
		component.Group = purlGroup(component.PURLs[0])
	}
	if component.PackageManager == "" {
		component.PackageManager = packageManagerFromPURL(component.PURLs[0])
	}
}
