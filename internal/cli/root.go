package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eatsplit",
	Short: "Track who owes whom after splitting restaurant bills",
	Long: `eatsplit keeps a list of friends with a running balance each.
Split a bill with one friend at a time; the balance moves by the friend's
share when you paid, or by your own share when they did.

Serve the web UI with "eatsplit serve" or work in the terminal with
"eatsplit tui". Configuration comes from the environment and an optional
.env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		LoadEnvFile()
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
