package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	applog "eatsplit/internal/log"
	"eatsplit/internal/tui"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().String("log-file", "", "Write logs to this file (the terminal is taken by the UI)")
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the ledger in the terminal",
	Long: `Run the ledger in the terminal.

Keys: up/down (or k/j) move, enter selects, a toggles the add-friend form,
tab switches fields, p toggles who paid, esc cancels, q or ctrl+c quits.`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := tea.LogToFile(path, "eatsplit")
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger := SetupLogger(cfg, out)

	app, err := BuildApp(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	return tui.Run(cmd.Context(), app.Session, logger.WithComponent(applog.ComponentTUI).Logger)
}
