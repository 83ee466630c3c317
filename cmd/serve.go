package cmd

import (
	"github.com/spf13/cobra"

	"github.com/expocli/expocli/internal/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query engine over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		return serve.New(buildExecutor(cfg, log), version).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
