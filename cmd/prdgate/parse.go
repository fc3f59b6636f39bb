// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prdgate/internal/artifact"
	"github.com/pdiddy/prdgate/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse the requirements document and print the extracted model",
	Long: `Parse extracts the title, version, goals, functional requirements (with
acceptance criteria), quality standards, acceptance criteria, and technical
constraints from the requirements document.

Sections that are missing or do not follow the heading conventions produce
empty lists rather than errors.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "table", "output format: table, yaml, or json")
	parseCmd.Flags().Bool("raw", false, "include raw_content in yaml/json output")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "table" || format == "" {
		printDocument(os.Stdout, doc)
		return nil
	}

	out := *doc
	if raw, _ := cmd.Flags().GetBool("raw"); !raw {
		out.RawContent = ""
	}
	return printEncoded(&out, format)
}

// printEncoded writes v to stdout as yaml or json.
func printEncoded(v any, format string) error {
	data, err := artifact.Marshal(v, types.ArtifactFormat(format))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func printDocument(w io.Writer, doc *types.PRDDocument) {
	fmt.Fprintf(w, "%s (version %s)\n", doc.Title, doc.Version)
	fmt.Fprintf(w, "source: %s\n\n", doc.Path)

	printList(w, "Goals", doc.Goals)

	fmt.Fprintf(w, "Functional requirements (%d)\n", len(doc.FunctionalRequirements))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range doc.FunctionalRequirements {
		fmt.Fprintf(w, "%-8s  %-3s  %s\n", r.ID, r.Priority, r.Name)
		for _, c := range r.AcceptanceCriteria {
			fmt.Fprintf(w, "                 [ ] %s\n", c)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Quality standards (%d)\n", len(doc.QualityRequirements))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, q := range doc.QualityRequirements {
		fmt.Fprintf(w, "%-12s  %-10s  %-8s  %s\n", q.Category, q.Name, q.Threshold, q.Metric)
	}
	fmt.Fprintln(w)

	printList(w, "Acceptance criteria", doc.AcceptanceCriteria)
	printList(w, "Technical constraints", doc.TechnicalConstraints)
}

func printList(w io.Writer, heading string, items []string) {
	fmt.Fprintf(w, "%s (%d)\n", heading, len(items))
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
	fmt.Fprintln(w)
}
