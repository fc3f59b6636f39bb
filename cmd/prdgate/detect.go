package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prdgate/internal/locate"
	"github.com/pdiddy/prdgate/internal/prd"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Locate the requirements document under the project root",
	Long: `Detect walks a fixed priority list of candidate paths (PRD.md, prd.md,
docs/PRD.md, ..., .kiro/specs/*/requirements.md) and reports the first one
that exists, with its format and version. Finding nothing is not an error.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().Bool("json", false, "output the location as JSON")
	detectCmd.Flags().Bool("candidates", false, "list the candidate paths in priority order")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("candidates"); list {
		for i, c := range locate.Candidates() {
			fmt.Fprintf(os.Stdout, "%2d  %s\n", i+1, c)
		}
		return nil
	}

	cfg := parserConfig()
	loc, err := prd.NewParser(cfg, logger).Detect("")
	if err != nil {
		return err
	}
	if loc == nil {
		fmt.Fprintf(os.Stdout, "No requirements document found under %s.\n", cfg.ProjectRoot)
		return nil
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(loc)
	}

	fmt.Fprintf(os.Stdout, "path:    %s\nformat:  %s\nversion: %s\n", loc.Path, loc.Format, loc.Version)
	return nil
}
