package sbomTranslator

import (
	"strings"

	"github.com/google/uuid"
	"github.com/package-url/packageurl-go"
	"github.com/rs/zerolog/log"
)

const (
	noneValue        = "NONE"
	noAssertionValue = "NOASSERTION"
	licenseRefPrefix = "LicenseRef-"
	serialPrefix     = "urn:uuid:"
)

func isAbsentValue(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, noneValue) || strings.EqualFold(value, noAssertionValue)
}

// splitLicenseExpression splits a license expression on the given operators,
// trims grouping parentheses and drops duplicates and NONE/NOASSERTION.
func splitLicenseExpression(expression string, operators ...string) []string {
	parts := []string{expression}
	for _, operator := range operators {
		var next []string
		for _, part := range parts {
			next = append(next, strings.Split(part, operator)...)
		}
		parts = next
	}

	var licenses []string
	seen := map[string]bool{}
	for _, part := range parts {
		license := strings.Trim(part, "() \t")
		if isAbsentValue(license) || seen[license] {
			continue
		}
		seen[license] = true
		licenses = append(licenses, license)
	}
	return licenses
}

// purlGroup returns the namespace of a package URL, which is the group for
// maven, npm scopes, golang module hosts and so on.
func purlGroup(purl string) string {
	if purl == "" {
		return ""
	}
	parsed, err := packageurl.FromString(purl)
	if err != nil {
		log.Debug().Err(err).Msgf("could not parse purl %s", purl)
		return ""
	}
	return parsed.Namespace
}

func isValidSerialNumber(serial string) bool {
	if !strings.HasPrefix(serial, serialPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(serial, serialPrefix))
	return err == nil
}

// actorName drops the "Person:", "Organization:" or "Tool:" qualifier of an
// SPDX actor.
func actorName(actor string) string {
	actor = strings.TrimSpace(actor)
	if isAbsentValue(actor) {
		return ""
	}
	for _, prefix := range []string{"Person:", "Organization:", "Tool:"} {
		if strings.HasPrefix(actor, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(actor, prefix))
		}
	}
	return actor
}

// splitToolName splits "syft-1.20.0" into name and version. Names without a
// version suffix are returned unchanged.
func splitToolName(tool string) (string, string) {
	index := strings.LastIndex(tool, "-")
	if index <= 0 || index == len(tool)-1 {
		return tool, ""
	}
	version := tool[index+1:]
	version = strings.TrimPrefix(version, "v")
	if version == "" || version[0] < '0' || version[0] > '9' {
		return tool, ""
	}
	return tool[:index], tool[index+1:]
}
