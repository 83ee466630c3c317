package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/expocli/expocli/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive query shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		return repl.New(buildExecutor(cfg, log), os.Stdout, os.Stderr).Run()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
