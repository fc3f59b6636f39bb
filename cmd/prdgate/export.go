// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prdgate/internal/artifact"
	"github.com/pdiddy/prdgate/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the parsed document and all derived artifacts to a directory",
	Long: `Export writes prd, thresholds, tools, and trace files (YAML or JSON) to
the output directory. Existing files are overwritten.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("out-dir", ".prdgate", "directory for generated artifacts")
	exportCmd.Flags().String("format", "yaml", "artifact format: yaml or json")

	viper.BindPFlag("output.output_dir", exportCmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("output.format", exportCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(exportCmd)
}

func outputConfig() types.OutputConfig {
	return types.OutputConfig{
		OutputDir: viper.GetString("output.output_dir"),
		Format:    types.ArtifactFormat(viper.GetString("output.format")),
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	return exportDocument(doc, outputConfig())
}

func exportDocument(doc *types.PRDDocument, cfg types.OutputConfig) error {
	paths, err := artifact.Write(cfg.OutputDir, artifact.Build(doc), cfg.Format)
	for _, p := range paths {
		fmt.Fprintf(os.Stdout, "wrote %s\n", p)
	}
	return err
}
