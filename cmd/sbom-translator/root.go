package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Checkmarx/sbom-translator/pkg/batchTranslator"
	"github.com/Checkmarx/sbom-translator/pkg/sbomTranslator"
	"github.com/Checkmarx/sbom-translator/pkg/sbomWriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	v := newViper()
	var cfg *config

	rootCmd := &cobra.Command{
		Use:   "sbom-translator",
		Short: "Translate SBOM documents into a rooted dependency tree",
		Long: `sbom-translator reads SPDX tag-value (.spdx), CycloneDX JSON (.json) and
CycloneDX XML (.xml) documents and translates them into one component model
with a cycle-free dependency tree rooted at the document's main component.

Every flag can also be set in a config file (--config) or through an
environment variable prefixed with SBOM_TRANSLATOR_, for example
SBOM_TRANSLATOR_OUTPUT_FORMAT=yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(v, cmd)
			if err != nil {
				return err
			}
			cfg = loaded
			return setupLogging(cfg.LogLevel, cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, "", "Path to a config file (yaml, json or toml)")
	flags.String(keyLogLevel, "info", "Log level: debug, info, warn, error")
	flags.StringP(keyOutputFormat, "f", "json", "Output format: json, yaml, cyclonedx, tree")
	flags.Bool(keyCompress, false, "Gzip and base64 encode the output")
	flags.Bool(keySniff, false, "Identify documents with an unknown extension by their content")

	translateCmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate a single SBOM document",
		Long: `Translate a single SBOM document and write the translated graph.

Examples:
  sbom-translator translate bom.spdx
  sbom-translator translate bom.json --output-format yaml --output graph.yaml
  sbom-translator translate bom.cdx --sniff --output-format tree`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, cfg, args[0])
		},
	}
	translateCmd.Flags().StringP(keyOutput, "o", "-", "Output file path (use '-' for stdout)")

	batchCmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Translate every SBOM document under a directory",
		Long: `Translate every SBOM document under a directory in parallel. Documents
that fail to translate are reported and skipped.

Examples:
  sbom-translator batch ./sboms --output-dir ./graphs
  sbom-translator batch ./sboms --include '**/*.spdx' --workers 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, cfg, args[0])
		},
	}
	batchCmd.Flags().String(keyOutputDir, "", "Directory to write one output file per document (default stdout)")
	batchCmd.Flags().Int(keyWorkers, 0, "Number of documents translated in parallel (default one per CPU)")
	batchCmd.Flags().StringSlice(keyInclude, nil, "Doublestar patterns of the documents to translate (default **/*.spdx, **/*.json, **/*.xml)")

	rootCmd.AddCommand(translateCmd, batchCmd)
	return rootCmd
}

func newTranslator(cfg *config) sbomTranslator.SbomTranslator {
	return sbomTranslator.NewSbomTranslator(sbomTranslator.WithContentSniffing(cfg.Sniff))
}

func runTranslate(cmd *cobra.Command, cfg *config, path string) error {
	writer, err := sbomWriter.NewWriter(cfg.OutputFormat, cfg.Compress)
	if err != nil {
		return err
	}

	result, err := newTranslator(cfg).Translate(path)
	if err != nil {
		return err
	}
	logWarnings(path, result)

	report := sbomWriter.NewReport(path, result)
	if cfg.Output == "-" || cfg.Output == "" {
		return writer.Write(cmd.OutOrStdout(), report)
	}
	return writer.WriteFile(cfg.Output, report)
}

func runBatch(cmd *cobra.Command, cfg *config, dir string) error {
	writer, err := sbomWriter.NewWriter(cfg.OutputFormat, cfg.Compress)
	if err != nil {
		return err
	}

	batch, err := batchTranslator.TranslateDirectory(cmd.Context(), dir, batchTranslator.Options{
		Workers:    cfg.Workers,
		Include:    cfg.Include,
		Translator: newTranslator(cfg),
	})
	if err != nil {
		return err
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", cfg.OutputDir, err)
		}
	}

	for _, document := range batch.Documents {
		logWarnings(document.Path, document.Result)
		report := sbomWriter.NewReport(document.Path, document.Result)
		if cfg.OutputDir == "" {
			if err := writer.Write(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			continue
		}
		outputPath := filepath.Join(cfg.OutputDir, outputFileName(document.Path, cfg.OutputFormat))
		if err := writer.WriteFile(outputPath, report); err != nil {
			return err
		}
	}

	for _, failure := range batch.Failures {
		log.Warn().Msgf("could not translate %s: %v", failure.Path, failure.Err)
	}
	log.Info().Msgf("translated %d documents, %d failed", len(batch.Documents), len(batch.Failures))

	if len(batch.Documents) == 0 && len(batch.Failures) > 0 {
		return fmt.Errorf("none of the %d documents under %s could be translated", len(batch.Failures), dir)
	}
	return nil
}

// outputFileName flattens a relative document path into a file name,
// "nested/bom.json" -> "nested_bom.json.yaml".
func outputFileName(documentPath, format string) string {
	extension := strings.ToLower(format)
	switch extension {
	case "", "tree", "cyclonedx":
		extension = "json"
	}
	return strings.ReplaceAll(documentPath, "/", "_") + "." + extension
}

func logWarnings(path string, result *sbomTranslator.Result) {
	for _, warning := range result.Warnings {
		log.Warn().Msgf("%s: %s", path, warning)
	}
}
