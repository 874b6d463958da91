package batchTranslator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Checkmarx/sbom-translator/pkg/sbomTranslator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spdxDocument = `SPDXVersion: SPDX-2.3
SPDXID: SPDXRef-DOCUMENT
DocumentName: sample

PackageName: app
SPDXID: SPDXRef-app

Relationship: SPDXRef-DOCUMENT DESCRIBES SPDXRef-app
`

const cycloneDxJsonDocument = `{
  "bomFormat": "CycloneDX",
  "specVersion": "1.4",
  "metadata": {"component": {"bom-ref": "M", "name": "m"}},
  "components": [{"bom-ref": "A", "name": "a"}],
  "dependencies": [{"ref": "M", "dependsOn": ["A"]}]
}`

const cycloneDxXmlDocument = `<?xml version="1.0" encoding="UTF-8"?>
<bom xmlns="http://cyclonedx.org/schema/bom/1.4" version="1">
  <metadata>
    <component type="library" bom-ref="root-ref"><name>root-lib</name></component>
  </metadata>
</bom>`

func writeDocuments(t *testing.T, documents map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range documents {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func documentPaths(batch *Batch) []string {
	var paths []string
	for _, document := range batch.Documents {
		paths = append(paths, document.Path)
	}
	return paths
}

func TestTranslateDirectory(t *testing.T) {
	dir := writeDocuments(t, map[string]string{
		"app.spdx":          spdxDocument,
		"bom.json":          cycloneDxJsonDocument,
		"nested/deep/b.xml": cycloneDxXmlDocument,
		"broken.json":       "{",
		"notes.txt":         "not an sbom",
	})

	batch, err := TranslateDirectory(context.Background(), dir, Options{Workers: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"app.spdx", "bom.json", "nested/deep/b.xml"}, documentPaths(batch))
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "broken.json", batch.Failures[0].Path)
	assert.True(t, errors.Is(batch.Failures[0].Err, sbomTranslator.ErrMalformedDocument))

	assert.Equal(t, "app", batch.Documents[0].Result.SBOM.RootComponentID)
	assert.Equal(t, "M", batch.Documents[1].Result.SBOM.RootComponentID)
	assert.Equal(t, "root-ref", batch.Documents[2].Result.SBOM.RootComponentID)
}

func TestTranslateDirectoryInclude(t *testing.T) {
	dir := writeDocuments(t, map[string]string{
		"app.spdx":          spdxDocument,
		"nested/bom.json":   cycloneDxJsonDocument,
		"nested/deep/b.xml": cycloneDxXmlDocument,
	})

	tests := []struct {
		name     string
		include  []string
		expected []string
	}{
		{name: "Nested only", include: []string{"nested/**"}, expected: []string{"nested/bom.json", "nested/deep/b.xml"}},
		{name: "Extension", include: []string{"**/*.spdx"}, expected: []string{"app.spdx"}},
		{name: "Several patterns", include: []string{"*.spdx", "**/*.xml"}, expected: []string{"app.spdx", "nested/deep/b.xml"}},
		{name: "Nothing matches", include: []string{"**/*.rdf"}, expected: nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			batch, err := TranslateDirectory(context.Background(), dir, Options{Include: test.include})
			require.NoError(t, err)
			assert.Equal(t, test.expected, documentPaths(batch))
			assert.Empty(t, batch.Failures)
		})
	}
}

func TestTranslateDirectoryWithContentSniffing(t *testing.T) {
	dir := writeDocuments(t, map[string]string{
		"bom.cdx": cycloneDxJsonDocument,
	})

	batch, err := TranslateDirectory(context.Background(), dir, Options{
		Include:    []string{"**/*"},
		Translator: sbomTranslator.NewSbomTranslator(sbomTranslator.WithContentSniffing(true)),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"bom.cdx"}, documentPaths(batch))
}

func TestTranslateDirectoryInvalidPattern(t *testing.T) {
	_, err := TranslateDirectory(context.Background(), t.TempDir(), Options{Include: []string{"[a-"}})
	assert.Error(t, err)
}

func TestTranslateDirectoryMissingDirectory(t *testing.T) {
	_, err := TranslateDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}

func TestTranslateDirectoryCancelled(t *testing.T) {
	dir := writeDocuments(t, map[string]string{
		"app.spdx": spdxDocument,
		"bom.json": cycloneDxJsonDocument,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := TranslateDirectory(ctx, dir, Options{})

	assert.Nil(t, batch)
	assert.True(t, errors.Is(err, context.Canceled))
}
