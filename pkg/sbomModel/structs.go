package sbomModel

type Format string

const (
	FormatSPDX      Format = "SPDX"
	FormatCycloneDX Format = "CycloneDX"
)

type Hash struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Value     string `json:"value" yaml:"value"`
}

// ExtractedLicense is a license declared inline by the document because it is
// not on the standard SPDX license list.
type ExtractedLicense struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Text           string `json:"text,omitempty" yaml:"text,omitempty"`
	CrossReference string `json:"crossReference,omitempty" yaml:"crossReference,omitempty"`
}

type Tool struct {
	Vendor  string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Component is one package or file of a translated document. ChildIDs is
// filled by the dependency graph builder and holds tree children only.
type Component struct {
	ID                string                      `json:"id" yaml:"id"`
	Name              string                      `json:"name" yaml:"name"`
	Supplier          string                      `json:"supplier,omitempty" yaml:"supplier,omitempty"`
	Version           string                      `json:"version,omitempty" yaml:"version,omitempty"`
	Group             string                      `json:"group,omitempty" yaml:"group,omitempty"`
	PackageManager    string                      `json:"packageManager,omitempty" yaml:"packageManager,omitempty"`
	CPEs              []string                    `json:"cpes,omitempty" yaml:"cpes,omitempty"`
	PURLs             []string                    `json:"purls,omitempty" yaml:"purls,omitempty"`
	SWIDs             []string                    `json:"swids,omitempty" yaml:"swids,omitempty"`
	Hashes            []Hash                      `json:"hashes,omitempty" yaml:"hashes,omitempty"`
	Licenses          []string                    `json:"licenses,omitempty" yaml:"licenses,omitempty"`
	ExtractedLicenses map[string]ExtractedLicense `json:"extractedLicenses,omitempty" yaml:"extractedLicenses,omitempty"`
	IsUnpackaged      bool                        `json:"isUnpackaged,omitempty" yaml:"isUnpackaged,omitempty"`
	FilesAnalyzed     bool                        `json:"filesAnalyzed,omitempty" yaml:"filesAnalyzed,omitempty"`
	DownloadLocation  string                      `json:"downloadLocation,omitempty" yaml:"downloadLocation,omitempty"`
	VerificationCode  string                      `json:"verificationCode,omitempty" yaml:"verificationCode,omitempty"`
	Properties        map[string]string           `json:"properties,omitempty" yaml:"properties,omitempty"`
	ChildIDs          []string                    `json:"childIds,omitempty" yaml:"childIds,omitempty"`
}

// SBOM is the canonical aggregate of one translated document.
type SBOM struct {
	Format          Format                `json:"format" yaml:"format"`
	SpecVersion     string                `json:"specVersion,omitempty" yaml:"specVersion,omitempty"`
	DocumentVersion string                `json:"documentVersion,omitempty" yaml:"documentVersion,omitempty"`
	Name            string                `json:"name,omitempty" yaml:"name,omitempty"`
	Author          string                `json:"author,omitempty" yaml:"author,omitempty"`
	SerialNumber    string                `json:"serialNumber,omitempty" yaml:"serialNumber,omitempty"`
	Timestamp       string                `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Metadata        map[string]string     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	RootComponentID string                `json:"rootComponentId" yaml:"rootComponentId"`
	Components      map[string]*Component `json:"components" yaml:"components"`
	ComponentIDs    []string              `json:"-" yaml:"-"`
	Tools           []Tool                `json:"tools,omitempty" yaml:"tools,omitempty"`
	// Dependencies is every declared edge that survived resolution, in
	// declaration order. ChildIDs is the spanning tree over it.
	Dependencies map[string][]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// TreeNode is a nested view of the component tree, rooted at the SBOM root.
type TreeNode struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Version  string      `json:"version,omitempty" yaml:"version,omitempty"`
	PURL     string      `json:"purl,omitempty" yaml:"purl,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}
