package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lumipallolabs/shredspace/internal/core"
)

var duTop int

var duCmd = &cobra.Command{
	Use:   "du <directory>",
	Short: "Recursively total disk usage under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runDu,
}

func init() {
	duCmd.Flags().IntVar(&duTop, "top", 20, "show the N largest files")
}

func runDu(cmd *cobra.Command, args []string) error {
	ctrl := core.NewController(cfg)
	defer ctrl.Stop()

	events, err := ctrl.StartUsageWalk(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	for ev := range events {
		switch e := ev.(type) {
		case core.UsageProgressEvent:
			fmt.Printf("\r%d files, %d bytes", e.FilesScanned, e.BytesFound)
		case core.UsageCompletedEvent:
			fmt.Println()
			if e.Err != nil {
				return e.Err
			}

			entries := e.Listing.Entries
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Size > entries[j].Size
			})
			if len(entries) > duTop {
				entries = entries[:duTop]
			}
			for _, entry := range entries {
				fmt.Printf("%12d  %s\n", entry.Size, entry.Path)
			}
		}
	}

	return nil
}
