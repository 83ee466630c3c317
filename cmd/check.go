package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/expocli/expocli/internal/eql"
	"github.com/expocli/expocli/internal/linter"
)

var checkCmd = &cobra.Command{
	Use:   `check "EQL statement"`,
	Short: "Report ambiguous field paths and query pitfalls",
	Long: `check parses a query, lints it, and inspects the first file the
FROM clause resolves to. Field paths with two or more components that
match several nodes in that file are reported; execution always uses the
first match. The report is advisory, so the command succeeds even when
it finds something.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		q, err := eql.ParseQuery(args[0])
		if err != nil {
			return err
		}
		if abs, err := filepath.Abs(q.FromPath); err == nil {
			q.FromPath = abs
		}

		diags := linter.Lint(q)
		for _, d := range diags {
			fmt.Println(d)
		}

		paths, err := buildExecutor(cfg, log).AnalyzeAmbiguity(q)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("path %s matches multiple nodes; the first match wins\n", p)
		}
		if len(diags) == 0 && len(paths) == 0 {
			fmt.Println("no findings")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
