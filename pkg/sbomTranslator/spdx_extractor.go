package sbomTranslator

import (
	"strings"

	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	"github.com/rs/zerolog/log"
	"github.com/spdx/tools-golang/spdx"
)

const (
	spdxSentinel        = "#####"
	spdxDocumentID      = "DOCUMENT"
	spdxVersionPrefix   = "SPDX-"
	spdxTextOpen        = "<text>"
	spdxTextClose       = "</text>"
	spdxRelationshipTag = "Relationship"
)

type spdxBlockKind int

const (
	spdxPackageBlock spdxBlockKind = iota
	spdxFileBlock
	spdxLicenseBlock
	spdxSnippetBlock
)

var spdxOpeningTags = map[string]spdxBlockKind{
	"PackageName":   spdxPackageBlock,
	"FileName":      spdxFileBlock,
	"LicenseID":     spdxLicenseBlock,
	"SnippetSPDXID": spdxSnippetBlock,
}

var spdxExternalRefCategories = map[string]struct{}{
	spdx.CategorySecurity:       {},
	spdx.CategoryPackageManager: {},
	spdx.CategoryPersistentId:   {},
	spdx.CategoryOther:          {},
}

var spdxChecksumAlgorithms = map[spdx.ChecksumAlgorithm]struct{}{
	spdx.SHA1: {}, spdx.SHA224: {}, spdx.SHA256: {}, spdx.SHA384: {}, spdx.SHA512: {},
	spdx.MD2: {}, spdx.MD4: {}, spdx.MD5: {}, spdx.MD6: {},
	spdx.SHA3_256: {}, spdx.SHA3_384: {}, spdx.SHA3_512: {},
	spdx.BLAKE2b_256: {}, spdx.BLAKE2b_384: {}, spdx.BLAKE2b_512: {},
	spdx.BLAKE3: {}, spdx.ADLER32: {},
}

type spdxSection int

const (
	spdxNoSection spdxSection = iota
	spdxPackageSection
	spdxUnpackagedSection
	spdxOtherSection
)

type tagValue struct {
	Tag   string
	Value string
	// Sentinel is set instead of Tag/Value for "#####" section lines.
	Sentinel string
}

type spdxBlock struct {
	Kind       spdxBlockKind
	Unpackaged bool
	Values     []tagValue
}

// extractSpdx reads an SPDX 2.2/2.3 tag-value document.
func extractSpdx(data []byte) (*extraction, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r", ""), "\n")
	tokens := tokenizeTagValues(lines)

	header, body, err := splitSpdxHeader(tokens)
	if err != nil {
		return nil, err
	}

	result := &extraction{
		Document: documentInfo{
			Format:   sbomModel.FormatSPDX,
			Metadata: map[string]string{},
		},
	}

	if err := parseSpdxHeader(header, result); err != nil {
		return nil, err
	}

	body = extractSpdxRelationships(body, result)
	blocks := splitSpdxBlocks(body)
	licenses := extractSpdxLicenses(blocks, result)

	for _, block := range blocks {
		switch block.Kind {
		case spdxPackageBlock:
			result.Components = append(result.Components, spdxPackageComponent(block, licenses, result))
		case spdxFileBlock:
			result.Components = append(result.Components, spdxFileComponent(block, licenses, result))
		}
	}

	rootID := sbomModel.NormalizeID(result.RootID)
	documentID := sbomModel.NormalizeID(result.Document.DocumentID)
	if rootID == "" || rootID == spdxDocumentID || rootID == documentID {
		if rootID == "" {
			result.warn(sbomModel.WarningPartialData, "document does not declare a DESCRIBES relationship, root is synthesized from the document")
		}
		result.RootID = ""
	}

	log.Debug().Msgf("spdx document %s: %d components, %d relationships", result.Document.Name,
		len(result.Components), len(result.Edges))

	return result, nil
}

// splitSpdxHeader separates the document creation information from the rest.
// The body starts at the first section sentinel or section-opening tag after
// the first header tag. Tokens come from tokenizeTagValues, so lines inside a
// <text> value never end the header.
func splitSpdxHeader(tokens []tagValue) ([]tagValue, []tagValue, error) {
	first := -1
	for i, tv := range tokens {
		if tv.Tag != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, nil, malformed("spdx document has no tag-value lines")
	}
	if tag := tokens[first].Tag; isSpdxBodyTag(tag) {
		return nil, nil, malformed("spdx document has no header, first tag is %s", tag)
	}

	for i := first + 1; i < len(tokens); i++ {
		if tokens[i].Tag == "" || isSpdxBodyTag(tokens[i].Tag) {
			return tokens[:i], tokens[i:], nil
		}
	}
	return tokens, nil, nil
}

func isSpdxBodyTag(tag string) bool {
	if _, ok := spdxOpeningTags[tag]; ok {
		return true
	}
	return tag == spdxRelationshipTag
}

func parseSpdxHeader(values []tagValue, result *extraction) error {
	doc := &result.Document
	var creators []string
	seen := false
	for _, tv := range values {
		if tv.Tag == "" {
			continue
		}
		seen = true
		switch tv.Tag {
		case "SPDXVersion":
			doc.SpecVersion = strings.TrimPrefix(tv.Value, spdxVersionPrefix)
		case "SPDXID":
			doc.DocumentID = tv.Value
		case "DocumentName":
			doc.Name = tv.Value
		case "DocumentNamespace":
			doc.SerialNumber = tv.Value
		case "Created":
			doc.Timestamp = tv.Value
		case "Creator":
			creators = append(creators, tv.Value)
			if strings.HasPrefix(tv.Value, "Tool:") {
				name, version := splitToolName(actorName(tv.Value))
				result.Tools = append(result.Tools, sbomModel.Tool{Name: name, Version: version})
			}
		default:
			if existing, ok := doc.Metadata[tv.Tag]; ok {
				doc.Metadata[tv.Tag] = existing + ", " + tv.Value
			} else {
				doc.Metadata[tv.Tag] = tv.Value
			}
		}
	}
	if !seen {
		return malformed("spdx document header is empty")
	}
	doc.Author = strings.Join(creators, ", ")

	if doc.SpecVersion == "" {
		result.warn(sbomModel.WarningPartialData, "spdx header has no SPDXVersion")
	}
	return nil
}

// extractSpdxRelationships collects every Relationship tag of the body and
// returns the body without them. A Relationship line quoted inside a <text>
// value is part of that value and is not seen here.
func extractSpdxRelationships(values []tagValue, result *extraction) []tagValue {
	remaining := make([]tagValue, 0, len(values))

	for _, tv := range values {
		if tv.Tag != spdxRelationshipTag {
			remaining = append(remaining, tv)
			continue
		}

		fields := strings.Fields(tv.Value)
		if len(fields) != 3 {
			result.warn(sbomModel.WarningPartialData, "dropping malformed spdx relationship %q", tv.Value)
			continue
		}

		left, verb, right := fields[0], fields[1], fields[2]
		if isAbsentValue(left) || isAbsentValue(right) {
			continue
		}

		switch verb {
		case spdx.RelationshipDependsOn:
			result.addEdge(left, right)
		case spdx.RelationshipDependencyOf:
			result.addEdge(right, left)
		case spdx.RelationshipDescribes:
			if result.RootID == "" {
				result.RootID = right
			}
		case spdx.RelationshipDescribedBy:
			if result.RootID == "" {
				result.RootID = left
			}
		default:
			log.Debug().Msgf("ignoring spdx relationship %s %s %s", left, verb, right)
		}
	}

	return remaining
}

func parseTagLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	tag, value, ok := strings.Cut(trimmed, ":")
	if !ok {
		return "", "", false
	}
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.ContainsAny(tag, " \t") {
		return "", "", false
	}
	return tag, strings.TrimSpace(value), true
}

// tokenizeTagValues turns lines into tag/value pairs, joining <text> values
// that span several lines. "#####" lines are kept as sentinel entries, other
// comments are skipped.
func tokenizeTagValues(lines []string) []tagValue {
	var values []tagValue

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, spdxSentinel) {
			values = append(values, tagValue{Sentinel: strings.TrimSpace(strings.TrimLeft(trimmed, "#"))})
			continue
		}

		tag, value, ok := parseTagLine(trimmed)
		if !ok {
			continue
		}
		if strings.HasPrefix(value, spdxTextOpen) {
			value, i = readSpdxText(lines, i, value)
		}
		values = append(values, tagValue{Tag: tag, Value: value})
	}

	return values
}

// readSpdxText reads a <text>...</text> value starting on lines[start] and
// returns it with the index of its last line. An unterminated value runs to
// the end of the document.
func readSpdxText(lines []string, start int, first string) (string, int) {
	rest := strings.TrimPrefix(first, spdxTextOpen)
	if index := strings.Index(rest, spdxTextClose); index >= 0 {
		return strings.TrimSpace(rest[:index]), start
	}

	parts := []string{rest}
	for i := start + 1; i < len(lines); i++ {
		if index := strings.Index(lines[i], spdxTextClose); index >= 0 {
			parts = append(parts, lines[i][:index])
			return strings.TrimSpace(strings.Join(parts, "\n")), i
		}
		parts = append(parts, lines[i])
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), len(lines) - 1
}

func splitSpdxBlocks(values []tagValue) []spdxBlock {
	var blocks []spdxBlock
	var current *spdxBlock
	section := spdxNoSection
	seenPackage := false

	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for _, tv := range values {
		if tv.Sentinel != "" || tv.Tag == "" {
			flush()
			section = spdxSectionOf(tv.Sentinel)
			continue
		}

		if kind, opens := spdxOpeningTags[tv.Tag]; opens {
			flush()
			current = &spdxBlock{Kind: kind}
			switch kind {
			case spdxPackageBlock:
				seenPackage = true
			case spdxFileBlock:
				current.Unpackaged = section == spdxUnpackagedSection || (section == spdxNoSection && !seenPackage)
			}
		}

		if current == nil {
			log.Debug().Msgf("ignoring spdx tag %s outside of any block", tv.Tag)
			continue
		}
		current.Values = append(current.Values, tv)
	}
	flush()

	return blocks
}

func spdxSectionOf(sentinel string) spdxSection {
	lower := strings.ToLower(sentinel)
	switch {
	case strings.Contains(lower, "unpackaged"):
		return spdxUnpackagedSection
	case strings.Contains(lower, "package"):
		return spdxPackageSection
	default:
		return spdxOtherSection
	}
}

func extractSpdxLicenses(blocks []spdxBlock, result *extraction) map[string]sbomModel.ExtractedLicense {
	licenses := map[string]sbomModel.ExtractedLicense{}

	for _, block := range blocks {
		if block.Kind != spdxLicenseBlock {
			continue
		}

		var license sbomModel.ExtractedLicense
		for _, tv := range block.Values {
			switch tv.Tag {
			case "LicenseID":
				license.ID = tv.Value
			case "LicenseName":
				license.Name = tv.Value
			case "ExtractedText":
				license.Text = tv.Value
			case "LicenseCrossReference":
				if license.CrossReference == "" {
					license.CrossReference = tv.Value
				}
			}
		}

		if license.ID == "" || license.Name == "" {
			result.warn(sbomModel.WarningPartialData, "dropping extracted license %q: id and name are required", license.ID)
			continue
		}
		if _, exists := licenses[license.ID]; !exists {
			licenses[license.ID] = license
		}
	}

	return licenses
}

func spdxPackageComponent(block spdxBlock, licenses map[string]sbomModel.ExtractedLicense, result *extraction) *sbomModel.Component {
	component := &sbomModel.Component{FilesAnalyzed: true}
	var originator string

	for _, tv := range block.Values {
		switch tv.Tag {
		case "PackageName":
			component.Name = tv.Value
		case "SPDXID":
			component.ID = sbomModel.NormalizeID(tv.Value)
		case "PackageVersion":
			component.Version = tv.Value
		case "PackageSupplier":
			component.Supplier = actorName(tv.Value)
		case "PackageOriginator":
			originator = actorName(tv.Value)
		case "PackageDownloadLocation":
			if !isAbsentValue(tv.Value) {
				component.DownloadLocation = tv.Value
			}
		case "FilesAnalyzed":
			component.FilesAnalyzed = strings.EqualFold(tv.Value, "true")
		case "PackageVerificationCode":
			if fields := strings.Fields(tv.Value); len(fields) > 0 {
				component.VerificationCode = fields[0]
			}
		case "PackageChecksum":
			addSpdxChecksum(component, tv.Value, result)
		case "PackageLicenseConcluded", "PackageLicenseDeclared":
			addSpdxLicenses(component, tv.Value, licenses, result)
		case "ExternalRef":
			addSpdxExternalRef(component, tv.Value, result)
		default:
			component.SetProperty(tv.Tag, tv.Value)
		}
	}

	if component.Supplier == "" {
		component.Supplier = originator
	}
	return component
}

func spdxFileComponent(block spdxBlock, licenses map[string]sbomModel.ExtractedLicense, result *extraction) *sbomModel.Component {
	component := &sbomModel.Component{IsUnpackaged: block.Unpackaged}

	for _, tv := range block.Values {
		switch tv.Tag {
		case "FileName":
			component.Name = tv.Value
		case "SPDXID":
			component.ID = sbomModel.NormalizeID(tv.Value)
		case "FileChecksum":
			addSpdxChecksum(component, tv.Value, result)
		case "LicenseConcluded", "LicenseInfoInFile":
			addSpdxLicenses(component, tv.Value, licenses, result)
		default:
			component.SetProperty(tv.Tag, tv.Value)
		}
	}

	return component
}

// addSpdxChecksum reads "SHA1: d6a770ba38583ed4bb4525bd96e50461655d2758".
// A hash with an algorithm SPDX does not list is kept and reported.
func addSpdxChecksum(component *sbomModel.Component, value string, result *extraction) {
	algorithm, checksum, ok := strings.Cut(value, ":")
	algorithm, checksum = strings.TrimSpace(algorithm), strings.TrimSpace(checksum)
	if !ok || algorithm == "" || checksum == "" {
		result.warn(sbomModel.WarningPartialData, "component %s has a malformed checksum %q", component.Name, value)
		return
	}
	if _, known := spdxChecksumAlgorithms[spdx.ChecksumAlgorithm(algorithm)]; !known {
		result.warn(sbomModel.WarningPartialData, "component %s has a checksum with unknown algorithm %s", component.Name, algorithm)
	}
	component.AddHash(algorithm, checksum)
}

func addSpdxLicenses(component *sbomModel.Component, value string, licenses map[string]sbomModel.ExtractedLicense, result *extraction) {
	for _, id := range splitLicenseExpression(value, " AND ") {
		if license, ok := licenses[id]; ok {
			component.AddExtractedLicense(license)
			continue
		}
		if strings.HasPrefix(id, licenseRefPrefix) {
			result.warn(sbomModel.WarningReference, "component %s references undeclared license %s", component.Name, id)
			continue
		}
		component.AddLicense(id)
	}
}

// addSpdxExternalRef reads "CATEGORY TYPE LOCATOR".
func addSpdxExternalRef(component *sbomModel.Component, value string, result *extraction) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		result.warn(sbomModel.WarningPartialData, "component %s has a malformed external reference %q", component.Name, value)
		return
	}

	// 2.2 documents may write PACKAGE_MANAGER and PERSISTENT_ID.
	category := strings.ReplaceAll(fields[0], "_", "-")
	if _, known := spdxExternalRefCategories[category]; !known {
		result.warn(sbomModel.WarningPartialData, "component %s has an external reference with unknown category %s", component.Name, fields[0])
	}

	refType, locator := fields[1], fields[2]
	switch refType {
	case spdx.SecurityCPE23Type, spdx.SecurityCPE22Type:
		component.AddCPE(locator)
	case spdx.PackageManagerPURL:
		component.AddPURL(locator)
	case spdx.SecuritySwid:
		component.AddSWID(locator)
	default:
		component.SetProperty("ExternalRef:"+refType, locator)
	}
}
