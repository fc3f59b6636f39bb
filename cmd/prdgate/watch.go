// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prdgate/internal/prd"
	"github.com/pdiddy/prdgate/internal/snapshot"
	"github.com/pdiddy/prdgate/internal/watch"
	"github.com/pdiddy/prdgate/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-export artifacts whenever the requirements document changes",
	Long: `Watch exports artifacts once, then again after each change to the
requirements document settles. With --snapshot each change is also recorded
in the snapshot history. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	addWatchFlags(watchCmd)
	viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))

	rootCmd.AddCommand(watchCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("out-dir", ".prdgate", "directory for generated artifacts")
	cmd.Flags().String("format", "yaml", "artifact format: yaml or json")
	cmd.Flags().Duration("debounce", 0, "quiet period before reacting to a change (default 500ms)")
	cmd.Flags().Bool("snapshot", false, "record a snapshot after each change")
	cmd.Flags().String("store-dir", ".prdgate", "directory containing the snapshot database")
}

// bindWatchFlags points the output and store keys at watch's own flags.
// export and snapshot bind the same keys in init; only one command runs per
// process, so rebinding here leaves them unaffected.
func bindWatchFlags(cmd *cobra.Command) {
	viper.BindPFlag("output.output_dir", cmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("output.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("store.dir", cmd.Flags().Lookup("store-dir"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	bindWatchFlags(cmd)
	p := prd.NewParser(parserConfig(), logger)

	path := viper.GetString("parser.file")
	if path == "" {
		loc, err := p.Detect("")
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("no requirements document found under %s", parserConfig().ProjectRoot)
		}
		path = loc.Path
	}

	out := outputConfig()

	var store *snapshot.Store
	if withSnapshot, _ := cmd.Flags().GetBool("snapshot"); withSnapshot {
		s, err := snapshot.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	handle := func(ctx context.Context, path string) error {
		doc, err := p.Parse(path)
		if err != nil {
			return err
		}
		if err := exportDocument(doc, out); err != nil {
			return err
		}
		if store != nil {
			return saveSnapshot(ctx, store, doc)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := handle(ctx, path); err != nil {
		return err
	}

	cfg := types.WatchConfig{Debounce: viper.GetDuration("watch.debounce")}
	return watch.New(path, cfg, handle, logger).Run(ctx)
}
