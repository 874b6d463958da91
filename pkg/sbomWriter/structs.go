package sbomWriter

import (
	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	"github.com/Checkmarx/sbom-translator/pkg/sbomTranslator"
)

type OutputFormat string

const (
	FormatJSON      OutputFormat = "json"
	FormatYAML      OutputFormat = "yaml"
	FormatCycloneDX OutputFormat = "cyclonedx"
	FormatTree      OutputFormat = "tree"
)

// Report is what gets serialized for one translated document.
type Report struct {
	Source   string              `json:"source,omitempty" yaml:"source,omitempty"`
	SBOM     *sbomModel.SBOM     `json:"sbom" yaml:"sbom"`
	Tree     *sbomModel.TreeNode `json:"tree,omitempty" yaml:"tree,omitempty"`
	Warnings []sbomModel.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func NewReport(source string, result *sbomTranslator.Result) *Report {
	return &Report{
		Source:   source,
		SBOM:     result.SBOM,
		Tree:     result.SBOM.Tree(),
		Warnings: result.Warnings,
	}
}
