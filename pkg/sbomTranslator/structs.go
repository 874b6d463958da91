package sbomTranslator

import (
	"github.com/Checkmarx/sbom-translator/pkg/dependencyGraph"
	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
)

// Result is a successfully translated document together with the recoverable
// conditions met on the way.
type Result struct {
	SBOM     *sbomModel.SBOM
	Warnings []sbomModel.Warning
}

type documentInfo struct {
	Format          sbomModel.Format
	SpecVersion     string
	DocumentVersion string
	DocumentID      string
	Name            string
	Author          string
	SerialNumber    string
	Timestamp       string
	Metadata        map[string]string
}

// extraction is what every format extractor hands to the canonical builder.
// Component ids are normalized but may still be empty or colliding.
type extraction struct {
	Document   documentInfo
	Components []*sbomModel.Component
	Edges      []dependencyGraph.Edge
	// RootComponent is the declared root. It is either one of Components or a
	// component declared outside the component list.
	RootComponent *sbomModel.Component
	// RootID names the root by id when RootComponent is nil.
	RootID   string
	Tools    []sbomModel.Tool
	Warnings []sbomModel.Warning
}

func (e *extraction) warn(kind sbomModel.WarningKind, format string, args ...interface{}) {
	e.Warnings = append(e.Warnings, sbomModel.NewWarning(kind, format, args...))
}

func (e *extraction) addEdge(parent, child string) {
	e.Edges = append(e.Edges, dependencyGraph.Edge{Parent: parent, Child: child})
}
