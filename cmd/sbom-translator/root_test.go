package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const cycloneDxJsonDocument = `{
  "bomFormat": "CycloneDX",
  "specVersion": "1.4",
  "metadata": {"component": {"bom-ref": "M", "name": "m"}},
  "components": [{"bom-ref": "A", "name": "a"}, {"bom-ref": "B", "name": "b"}],
  "dependencies": [{"ref": "M", "dependsOn": ["A"]}, {"ref": "A", "dependsOn": ["B"]}]
}`

type reportOutput struct {
	Source string `json:"source" yaml:"source"`
	SBOM   struct {
		RootComponentID string `json:"rootComponentId" yaml:"rootComponentId"`
	} `json:"sbom" yaml:"sbom"`
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTranslateCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.json", cycloneDxJsonDocument)

	output, err := execute(t, "translate", path)
	require.NoError(t, err)

	var report reportOutput
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, path, report.Source)
	assert.Equal(t, "M", report.SBOM.RootComponentID)
}

func TestTranslateCommandYamlFromEnvironment(t *testing.T) {
	t.Setenv("SBOM_TRANSLATOR_OUTPUT_FORMAT", "yaml")
	path := writeFile(t, t.TempDir(), "bom.json", cycloneDxJsonDocument)

	output, err := execute(t, "translate", path)
	require.NoError(t, err)

	var report reportOutput
	require.NoError(t, yaml.Unmarshal([]byte(output), &report))
	assert.Equal(t, "M", report.SBOM.RootComponentID)
}

func TestTranslateCommandFlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.json", cycloneDxJsonDocument)
	configPath := writeFile(t, dir, "config.yaml", "output-format: yaml\nlog-level: debug\n")

	output, err := execute(t, "translate", path, "--config", configPath, "--output-format", "tree")
	require.NoError(t, err)

	var tree struct {
		ID       string `json:"id"`
		Children []struct {
			ID string `json:"id"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &tree))
	assert.Equal(t, "M", tree.ID)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "A", tree.Children[0].ID)
}

func TestTranslateCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.json", cycloneDxJsonDocument)
	outputPath := filepath.Join(dir, "graph.json")

	output, err := execute(t, "translate", path, "--output", outputPath)
	require.NoError(t, err)
	assert.Empty(t, output)

	written, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	var report reportOutput
	require.NoError(t, json.Unmarshal(written, &report))
	assert.Equal(t, "M", report.SBOM.RootComponentID)
}

func TestTranslateCommandErrors(t *testing.T) {
	dir := t.TempDir()
	unsupported := writeFile(t, dir, "bom.txt", cycloneDxJsonDocument)
	malformed := writeFile(t, dir, "broken.json", "{")
	valid := writeFile(t, dir, "bom.json", cycloneDxJsonDocument)

	tests := []struct {
		name string
		args []string
	}{
		{name: "Unsupported extension", args: []string{"translate", unsupported}},
		{name: "Malformed document", args: []string{"translate", malformed}},
		{name: "Missing file", args: []string{"translate", filepath.Join(dir, "missing.json")}},
		{name: "Unknown output format", args: []string{"translate", valid, "--output-format", "csv"}},
		{name: "Invalid log level", args: []string{"translate", valid, "--log-level", "loud"}},
		{name: "Missing argument", args: []string{"translate"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := execute(t, test.args...)
			assert.Error(t, err)
		})
	}
}

func TestTranslateCommandSniff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.txt", cycloneDxJsonDocument)

	output, err := execute(t, "translate", path, "--sniff")
	require.NoError(t, err)
	assert.Contains(t, output, `"rootComponentId": "M"`)
}

func TestBatchCommandOutputDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sboms/bom.json", cycloneDxJsonDocument)
	writeFile(t, dir, "sboms/nested/other.json", cycloneDxJsonDocument)
	writeFile(t, dir, "sboms/broken.json", "{")
	outputDir := filepath.Join(dir, "graphs")

	_, err := execute(t, "batch", filepath.Join(dir, "sboms"), "--output-dir", outputDir, "--workers", "2", "--output-format", "yaml")
	require.NoError(t, err)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Equal(t, []string{"bom.json.yaml", "nested_other.json.yaml"}, names)
}

func TestBatchCommandInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bom.json", cycloneDxJsonDocument)
	writeFile(t, dir, "nested/other.json", cycloneDxJsonDocument)

	output, err := execute(t, "batch", dir, "--include", "nested/**", "--output-format", "tree")
	require.NoError(t, err)

	var tree struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &tree))
	assert.Equal(t, "M", tree.ID)
}

func TestBatchCommandAllFailed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", "{")

	_, err := execute(t, "batch", dir)
	assert.Error(t, err)
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "nested_bom.json.yaml", outputFileName("nested/bom.json", "yaml"))
	assert.Equal(t, "bom.spdx.json", outputFileName("bom.spdx", "cyclonedx"))
	assert.Equal(t, "bom.spdx.json", outputFileName("bom.spdx", "tree"))
	assert.Equal(t, "bom.xml.json", outputFileName("bom.xml", ""))
}
