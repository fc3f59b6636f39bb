// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prdgate/internal/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Map functional requirements to code path globs",
	Long: `Trace assigns each functional requirement the globs implied by the
domain keywords in its name and description (安全, 性能, 数据库, UI, API, 测试).
Requirements without a keyword map to src/**.

With --resolve, every glob is expanded against the project tree and the number
of matching files is reported; requirements whose globs match nothing are
listed at the end.`,
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().String("format", "yaml", "output format: yaml or json")
	traceCmd.Flags().Bool("resolve", false, "count files matched by each glob under --root")

	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	m := trace.Map(doc)

	if resolve, _ := cmd.Flags().GetBool("resolve"); !resolve {
		format, _ := cmd.Flags().GetString("format")
		return printEncoded(m, format)
	}

	res, err := trace.Resolve(parserConfig().ProjectRoot, m)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-24s  %s\n", "ID", "Pattern", "Files")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 44))
	for _, r := range res {
		fmt.Fprintf(os.Stdout, "%-8s  %-24s  %d\n", r.RequirementID, r.Pattern, r.Matches)
	}

	if unmapped := trace.Unmapped(res); len(unmapped) > 0 {
		fmt.Fprintf(os.Stdout, "\n%d requirement(s) with no matching files: %s\n",
			len(unmapped), strings.Join(unmapped, ", "))
	}
	return nil
}
