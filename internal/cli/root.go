package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/shredspace/internal/config"
	"github.com/lumipallolabs/shredspace/internal/core"
	"github.com/lumipallolabs/shredspace/internal/ui"
)

const Version = "0.3.0"

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:     "shredspace [directory]",
	Short:   "Disk usage viewer with secure file shredding",
	Long:    "shredspace shows what is taking space in a directory and can irreversibly destroy selected files with multi-pass overwriting.",
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runTUI,
}

// Execute runs the command tree
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(shredCmd)
	rootCmd.AddCommand(duCmd)

	cobra.OnInitialize(loadConfig)
}

// loadConfig reads the config file before any command runs
func loadConfig() {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}
}

// runTUI launches the interactive interface
func runTUI(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}

	ctrl := core.NewController(cfg)
	defer ctrl.Stop()

	p := tea.NewProgram(
		ui.NewApp(ctrl, dir),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
