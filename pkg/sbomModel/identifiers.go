package sbomModel

import "strings"

const spdxRefPrefix = "SPDXRef-"

// NormalizeID strips the decoration different extraction paths put on the same
// identifier: every '@' and every leading "SPDXRef-" prefix. An empty result
// means the identifier is missing.
func NormalizeID(raw string) string {
	id := strings.TrimSpace(strings.ReplaceAll(raw, "@", ""))
	for strings.HasPrefix(id, spdxRefPrefix) {
		id = strings.TrimSpace(strings.TrimPrefix(id, spdxRefPrefix))
	}
	return id
}
