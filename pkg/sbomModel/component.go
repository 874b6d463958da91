package sbomModel

import "strings"

func (c *Component) AddCPE(cpe string) {
	c.CPEs = appendUnique(c.CPEs, cpe)
}

func (c *Component) AddPURL(purl string) {
	c.PURLs = appendUnique(c.PURLs, purl)
}

func (c *Component) AddSWID(swid string) {
	c.SWIDs = appendUnique(c.SWIDs, swid)
}

func (c *Component) AddLicense(license string) {
	c.Licenses = appendUnique(c.Licenses, license)
}

func (c *Component) AddHash(algorithm, value string) {
	algorithm = strings.TrimSpace(algorithm)
	value = strings.TrimSpace(value)
	if algorithm == "" || value == "" {
		return
	}
	for _, h := range c.Hashes {
		if h.Algorithm == algorithm && h.Value == value {
			return
		}
	}
	c.Hashes = append(c.Hashes, Hash{Algorithm: algorithm, Value: value})
}

// AddExtractedLicense keeps the first record seen for an id.
func (c *Component) AddExtractedLicense(license ExtractedLicense) {
	if license.ID == "" {
		return
	}
	if c.ExtractedLicenses == nil {
		c.ExtractedLicenses = map[string]ExtractedLicense{}
	}
	if _, exists := c.ExtractedLicenses[license.ID]; !exists {
		c.ExtractedLicenses[license.ID] = license
	}
}

func (c *Component) SetProperty(key, value string) {
	if key == "" {
		return
	}
	if c.Properties == nil {
		c.Properties = map[string]string{}
	}
	c.Properties[key] = value
}

func appendUnique(values []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return values
	}
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
