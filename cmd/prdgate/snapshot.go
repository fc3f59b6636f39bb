// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prdgate/internal/derive"
	"github.com/pdiddy/prdgate/internal/snapshot"
	"github.com/pdiddy/prdgate/pkg/types"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record and inspect the history of parsed documents",
	Long: `Snapshot keeps a local SQLite history of parse results so that changes
to requirements and thresholds can be compared across document revisions.`,
}

// --- save subcommand ---

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Parse the document and store a snapshot",
	Long: `Save parses the requirements document and stores its requirements,
quality standards, and derived thresholds. A document whose content is
unchanged since the last snapshot of the same path is skipped.`,
	RunE: runSnapshotSave,
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}

	store, err := snapshot.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	return saveSnapshot(context.Background(), store, doc)
}

func saveSnapshot(ctx context.Context, store *snapshot.Store, doc *types.PRDDocument) error {
	snap, err := store.Save(ctx, doc, derive.QualityStandards(doc))
	if err != nil {
		return err
	}
	if snap.Unchanged {
		fmt.Fprintf(os.Stdout, "skipped %s (unchanged since %s)\n", doc.Path, snap.ID)
		return nil
	}
	fmt.Fprintf(os.Stdout, "saved %s (%d requirements, %d standards)\n", snap.ID, snap.Requirements, snap.Standards)
	return nil
}

// --- list subcommand ---

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	RunE:  runSnapshotList,
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	store, err := snapshot.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	snaps, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-8s  %4s  %4s  %s\n",
		"ID", "Created", "Version", "Reqs", "Stds", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, s := range snaps {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-8s  %4d  %4d  %s\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Version,
			s.Requirements, s.Standards, s.Path)
	}
	return nil
}

// --- show subcommand ---

var snapshotShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a stored snapshot (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotShow,
}

// snapshotView is the printed form of a snapshot with its rows.
type snapshotView struct {
	Snapshot     snapshot.Snapshot       `json:"snapshot" yaml:"snapshot"`
	Requirements []types.Requirement     `json:"requirements" yaml:"requirements"`
	Standards    []types.QualityStandard `json:"standards" yaml:"standards"`
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := snapshot.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	var snap snapshot.Snapshot
	if len(args) == 1 {
		snap, err = store.Get(ctx, args[0])
		if err != nil {
			return err
		}
	} else {
		latest, err := store.Latest(ctx)
		if err != nil {
			return err
		}
		if latest == nil {
			return fmt.Errorf("no snapshots stored")
		}
		snap = *latest
	}

	reqs, err := store.Requirements(ctx, snap.ID)
	if err != nil {
		return err
	}
	stds, err := store.Standards(ctx, snap.ID)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return printEncoded(snapshotView{Snapshot: snap, Requirements: reqs, Standards: stds}, format)
}

// --- shared helpers ---

func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		Dir:        viper.GetString("store.dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
}

func init() {
	snapshotCmd.PersistentFlags().String("store-dir", ".prdgate", "directory containing the snapshot database")
	viper.BindPFlag("store.dir", snapshotCmd.PersistentFlags().Lookup("store-dir"))
	viper.SetDefault("store.max_results", 20)

	snapshotListCmd.Flags().Int("limit", 0, "maximum snapshots to list (0 = use default)")
	snapshotShowCmd.Flags().String("format", "yaml", "output format: yaml or json")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)

	rootCmd.AddCommand(snapshotCmd)
}
