package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumipallolabs/shredspace/internal/core"
	"github.com/lumipallolabs/shredspace/internal/model"
	"github.com/lumipallolabs/shredspace/internal/scanner"
)

var (
	scanSort   string
	scanFilter string
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "List a directory's files and sizes",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanSort, "sort", "", "sort by name|size|extension|modified (re-reads the directory)")
	scanCmd.Flags().StringVar(&scanFilter, "filter", "all", "show only all|images|documents|other")
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := args[0]

	filter, ok := model.ParseCategory(scanFilter)
	if !ok {
		return fmt.Errorf("unknown filter %q", scanFilter)
	}

	var listing model.Listing
	var err error

	if scanSort != "" {
		key, ok := model.ParseSortKey(scanSort)
		if !ok {
			return fmt.Errorf("unknown sort key %q", scanSort)
		}
		listing, err = scanner.ListSorted(dir, key)
		if err != nil {
			return err
		}
	} else {
		ctrl := core.NewController(cfg)
		defer ctrl.Stop()

		events, err := ctrl.StartScan(cmd.Context(), dir)
		if err != nil {
			return err
		}

		for ev := range events {
			switch e := ev.(type) {
			case core.ScanProgressEvent:
				fmt.Printf("\rScanning... %3d%%", e.Percent)
			case core.ScanCompletedEvent:
				fmt.Println()
				if e.Err != nil {
					return e.Err
				}
				listing = e.Listing
			}
		}
	}

	listing = listing.Filter(filter)

	for _, entry := range listing.Entries {
		fmt.Printf("%12d  %s\n", entry.Size, entry.Name)
	}
	fmt.Printf("%12d  total (%d files)\n", listing.TotalSize(), len(listing.Entries))

	return nil
}
