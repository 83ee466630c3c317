package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/expocli/expocli/api"
	"github.com/expocli/expocli/internal/config"
	"github.com/expocli/expocli/internal/eql"
	"github.com/expocli/expocli/internal/executor"
	"github.com/expocli/expocli/internal/linter"
	"github.com/expocli/expocli/internal/logging"
	"github.com/expocli/expocli/internal/render"
)

var (
	formatName   string
	outputPath   string
	showProgress bool
	showStats    bool
	configPath   string
	logLevelName string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./expocli.hcl, then ~/.expocli/config.hcl)")
	rootCmd.PersistentFlags().StringVar(&logLevelName, "log-level", "", "Log level: debug, info, warn, or error")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: table, csv, json, or sqlite")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write results to a file (required for sqlite)")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "Show scan progress on stderr")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "Print an execution summary to stderr")
}

var rootCmd = &cobra.Command{
	Use:   `expocli "EQL statement"`,
	Short: "ExpoCLI: SQL-style queries over XML documents",
	Long: `ExpoCLI runs SQL-style queries over XML files.

The FROM clause names one .xml file or a directory whose top-level .xml
files are all scanned. For example:

  expocli 'SELECT name, price FROM ./menus WHERE calories < 700 ORDER BY price'
  expocli -f csv 'SELECT FILE_NAME, food/name FOR f IN breakfast_menu/food FROM ./menus'`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		format, err := resolveFormat(cfg)
		if err != nil {
			return err
		}
		if format == render.FormatSQLite && outputPath == "" {
			return fmt.Errorf("sqlite output needs --output <file.db>")
		}

		q, err := eql.ParseQuery(args[0])
		if err != nil {
			return err
		}
		for _, d := range linter.Lint(q) {
			log.Warnf("%s", d)
		}
		if abs, err := filepath.Abs(q.FromPath); err == nil {
			q.FromPath = abs
		}

		exec := buildExecutor(cfg, log)

		var progressFn api.ProgressFunc
		var bar *progressbar.ProgressBar
		if showProgress || cfg.Progress {
			progressFn = func(completed, total, workers int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("scanning"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(completed)
			}
		}

		rows, stats := exec.ExecuteWithProgress(q, progressFn)
		if bar != nil {
			_ = bar.Finish()
		}

		if err := writeResults(format, q.Columns(), rows); err != nil {
			return err
		}
		if showStats {
			_ = render.Stats(os.Stderr, stats)
		}
		return nil
	},
}

func writeResults(format render.Format, columns []string, rows []api.ResultRow) error {
	if format == render.FormatSQLite {
		return render.SQLite(outputPath, columns, rows)
	}
	w := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return render.Write(w, format, columns, rows)
}

// loadConfig resolves the config file and the logger the run will use.
func loadConfig() (config.Config, *logging.Logger, error) {
	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, _, err = config.Discover()
	}
	if err != nil {
		return config.Config{}, nil, err
	}

	levelName := logLevelName
	if levelName == "" {
		levelName = cfg.LogLevel
	}
	log := logging.Default()
	if levelName != "" {
		log.SetLevel(logging.ParseLevel(levelName))
	}
	return cfg, log, nil
}

func resolveFormat(cfg config.Config) (render.Format, error) {
	name := formatName
	if name == "" {
		name = cfg.Format
	}
	if name == "" {
		name = string(render.FormatTable)
	}
	return render.ParseFormat(name)
}

func buildExecutor(cfg config.Config, log *logging.Logger) *executor.Executor {
	opts := []executor.Option{executor.WithLogger(log)}
	if cfg.Workers > 0 {
		opts = append(opts, executor.WithWorkerCap(cfg.Workers))
	}
	if cfg.ParallelThreshold > 0 {
		opts = append(opts, executor.WithParallelThreshold(cfg.ParallelThreshold))
	}
	return executor.New(opts...)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
