package sbomTranslator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateUnsupportedExtension(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
	}{
		{name: "Yaml", fileName: "bom.yaml"},
		{name: "No extension", fileName: "bom"},
		{name: "Rdf", fileName: "bom.rdf"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := NewSbomTranslator().TranslateContents(test.fileName, []byte(cycloneDxJsonWithoutDependencies))
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrUnsupportedFormat))

			var translationErr *TranslationError
			require.True(t, errors.As(err, &translationErr))
			assert.Equal(t, test.fileName, translationErr.Name)
		})
	}
}

func TestTranslateExtensionIsCaseInsensitive(t *testing.T) {
	result, err := NewSbomTranslator().TranslateContents("BOM.JSON", []byte(cycloneDxJsonWithoutDependencies))
	require.NoError(t, err)
	assert.Equal(t, "M", result.SBOM.RootComponentID)
}

func TestTranslateMalformedIsTranslationError(t *testing.T) {
	_, err := NewSbomTranslator().TranslateContents("bom.json", []byte("{"))

	var translationErr *TranslationError
	require.True(t, errors.As(err, &translationErr))
	assert.Equal(t, "bom.json", translationErr.Name)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
	assert.False(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestTranslateFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.xml")
	require.NoError(t, os.WriteFile(path, []byte(cycloneDxXml), 0o600))

	result, err := NewSbomTranslator().Translate(path)

	require.NoError(t, err)
	assert.Equal(t, "root-ref", result.SBOM.RootComponentID)
}

func TestTranslateMissingFile(t *testing.T) {
	_, err := NewSbomTranslator().Translate(filepath.Join(t.TempDir(), "missing.spdx"))

	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestTranslateIsDeterministic(t *testing.T) {
	documents := map[string]string{
		"bom.json": cycloneDxJsonWithoutDependencies,
		"bom.xml":  cycloneDxXml,
		"bom.spdx": spdxHeader + spdxPackage("root", "root") + spdxPackage("a", "a") +
			"Relationship: SPDXRef-DOCUMENT DESCRIBES SPDXRef-root\n" +
			"Relationship: SPDXRef-root DEPENDS_ON SPDXRef-a\n" +
			"Relationship: SPDXRef-a DEPENDS_ON SPDXRef-root\n",
	}

	for name, document := range documents {
		t.Run(name, func(t *testing.T) {
			first, err := NewSbomTranslator().TranslateContents(name, []byte(document))
			require.NoError(t, err)
			second, err := NewSbomTranslator().TranslateContents(name, []byte(document))
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestTranslateWithContentSniffing(t *testing.T) {
	translator := NewSbomTranslator(WithContentSniffing(true))

	result, err := translator.TranslateContents("bom.cdx", []byte(cycloneDxJsonWithoutDependencies))
	require.NoError(t, err)
	assert.Equal(t, "M", result.SBOM.RootComponentID)

	_, err = translator.TranslateContents("notes.txt", []byte("just some notes"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestTranslateWithoutContentSniffing(t *testing.T) {
	_, err := NewSbomTranslator(WithContentSniffing(false)).TranslateContents("bom.cdx", []byte(cycloneDxJsonWithoutDependencies))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
