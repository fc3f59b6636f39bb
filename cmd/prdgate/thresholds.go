// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/prdgate/internal/derive"
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Print quality-gate thresholds derived from the document",
	Long: `Thresholds starts from the built-in defaults and overrides test coverage,
cyclomatic complexity, and response time with values stated in the quality
section. Values that are not integers are ignored and the default is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return printEncoded(derive.QualityStandards(doc), format)
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print linter, security-scanner, and coverage configuration",
	Long: `Tools derives pylint, bandit, and coverage settings. Line length,
complexity, and coverage come from the thresholds; argument, local, branch,
and statement limits are fixed. Bandit severity is "low" when the document
states a zero-vulnerability policy and "medium" otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return printEncoded(derive.ToolConfig(doc), format)
	},
}

func init() {
	thresholdsCmd.Flags().String("format", "yaml", "output format: yaml or json")
	toolsCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(thresholdsCmd)
	rootCmd.AddCommand(toolsCmd)
}
