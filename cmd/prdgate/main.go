// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prdgate CLI.
// Subcommands locate a PRD, parse it, and print or write the derived
// quality-gate artifacts.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prdgate/internal/prd"
	"github.com/pdiddy/prdgate/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE from --verbose.
var logger = slog.Default()

// rootCmd is the base command for the prdgate CLI.
var rootCmd = &cobra.Command{
	Use:   "prdgate",
	Short: "Derive quality-gate configuration from a requirements document",
	Long: `prdgate reads a project's requirements document (PRD.md, docs/PRD.md,
.kiro/specs/*/requirements.md, ...) and extracts goals, functional requirements,
and quality standards. From these it derives quality-gate thresholds, linter and
security-scanner settings, and a requirement-to-code traceability map.

Chinese and English section headings are both recognized.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prdgate.yaml or ~/.config/prdgate/config.yaml)")
	rootCmd.PersistentFlags().String("root", ".", "project root searched for the requirements document")
	rootCmd.PersistentFlags().String("file", "", "parse this file instead of detecting one under --root")
	rootCmd.PersistentFlags().Int("max-bytes", types.DefaultMaxDocumentBytes, "truncate documents larger than this many bytes")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	viper.BindPFlag("parser.project_root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("parser.file", rootCmd.PersistentFlags().Lookup("file"))
	viper.BindPFlag("parser.max_document_bytes", rootCmd.PersistentFlags().Lookup("max-bytes"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prdgate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prdgate"))
		}
	}

	viper.SetEnvPrefix("PRDGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// parserConfig reads parser settings from flags, config file, and env.
func parserConfig() types.ParserConfig {
	return types.ParserConfig{
		ProjectRoot:      viper.GetString("parser.project_root"),
		MaxDocumentBytes: viper.GetInt("parser.max_document_bytes"),
	}
}

// loadDocument parses --file when set, otherwise the document detected
// under the project root. A missing document is an error here because
// every caller of loadDocument needs one.
func loadDocument() (*types.PRDDocument, error) {
	p := prd.NewParser(parserConfig(), logger)

	if file := viper.GetString("parser.file"); file != "" {
		return p.Parse(file)
	}

	doc, _, err := p.ParseProject("")
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("no requirements document found under %s", parserConfig().ProjectRoot)
	}
	return doc, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
