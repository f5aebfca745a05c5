package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumipallolabs/shredspace/internal/core"
	"github.com/lumipallolabs/shredspace/internal/shred"
)

var (
	shredMethod string
	shredPasses int
	shredYes    bool
)

var shredCmd = &cobra.Command{
	Use:   "shred <file>...",
	Short: "Irreversibly destroy files",
	Long: `Overwrites each file's content in place with the selected method, then
removes it. There is no undo; an interrupted run leaves the file partially
overwritten.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShred,
}

func init() {
	shredCmd.Flags().StringVar(&shredMethod, "method", "", "zero|random|dod|aes (default: last used)")
	shredCmd.Flags().IntVar(&shredPasses, "passes", 0, "overwrite passes, 1-99 (ignored by dod and aes)")
	shredCmd.Flags().BoolVarP(&shredYes, "yes", "y", false, "skip confirmation")
}

func runShred(cmd *cobra.Command, args []string) error {
	ctrl := core.NewController(cfg)
	defer ctrl.Stop()

	var failed int
	for _, path := range args {
		req := ctrl.DefaultRequest(path)
		if shredMethod != "" {
			m, err := shred.ParseMethod(shredMethod)
			if err != nil {
				return err
			}
			req.Method = m
		}
		if shredPasses != 0 {
			req.Passes = shredPasses
		}

		if !shredYes && !confirm(path, req) {
			fmt.Printf("Skipped %s\n", path)
			continue
		}

		events, err := ctrl.StartShred(cmd.Context(), req)
		if err != nil {
			return err
		}

		for ev := range events {
			switch e := ev.(type) {
			case core.ShredProgressEvent:
				fmt.Printf("\r%s: %3d%%", path, e.Percent)
			case core.ShredCompletedEvent:
				fmt.Println()
				failed += report(path, e.Outcome)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) not fully erased", failed)
	}
	return nil
}

// report prints the outcome and returns 1 if the erase failed
func report(path string, out shred.Outcome) int {
	if out.OK {
		fmt.Printf("Destroyed %s (%d passes)\n", path, out.PassesCompleted)
		return 0
	}

	switch out.Kind {
	case shred.FailPartialErase:
		// Data is gone but the entry is still visible; louder than a
		// plain failure
		fmt.Printf("WARNING %s: content destroyed but the file entry could not be removed: %v\n",
			path, out.Err)
	default:
		fmt.Printf("Failed %s after %d of %d passes: %v\n",
			path, out.PassesCompleted, out.TotalPasses, out.Err)
	}
	return 1
}

// confirm asks before destroying a file
func confirm(path string, req shred.Request) bool {
	fmt.Printf("Destroy %s with method %s (%d passes)? [y/N] ",
		path, req.Method, req.Method.PassCount(req.Passes))
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
